package main

import (
	"fmt"

	"github.com/fwojciec/georender"
	"github.com/fwojciec/georender/fs"
	"github.com/fwojciec/georender/job"
)

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	URLs []string `arg:"" optional:"" help:"URLs to render"`

	Sitemap     string   `placeholder:"URL" help:"Discover URLs from the sitemaps of this site"`
	Filter      []string `short:"F" sep:"none" help:"Keep only discovered URLs matching this regex (repeatable)"`
	Exclude     []string `short:"x" sep:"none" help:"Drop discovered URLs matching this regex (repeatable)"`
	Limit       int      `default:"100" help:"Maximum number of URLs to render"`
	Concurrency int      `short:"c" default:"3" help:"Concurrent renders"`
	RPS         float64  `name:"rps" default:"1" help:"Submissions per second per host (0 for no limit)"`
	Dir         string   `short:"d" type:"path" default:"renders" help:"Output directory"`
	Format      string   `short:"f" enum:"html,markdown" default:"markdown" help:"Output format (html, markdown)"`
	Extractor   string   `enum:"trafilatura,readability,none" default:"trafilatura" help:"Main content extractor for markdown"`
	Screenshots bool     `help:"Save a screenshot next to each page"`

	RenderFlags
}

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	opts, err := c.Options(c.Screenshots)
	if err != nil {
		return err
	}

	urls, err := c.collectURLs(deps)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return georender.Errorf(georender.EINVALID, "no URLs to render")
	}

	writer := deps.Writer
	if writer == nil {
		writer = fs.NewWriter(c.Dir)
	}

	batch := &job.Batch{
		Controller:  deps.Controller,
		Concurrency: c.Concurrency,
		Limiter:     job.NewDomainLimiter(c.RPS),
	}

	progress := func(e job.BatchEvent) {
		switch e.Type {
		case job.BatchStarted:
			fmt.Fprintf(deps.Stderr, "Rendering %d URLs\n", e.Total)
		case job.BatchCompleted:
			fmt.Fprintf(deps.Stderr, "  [%d/%d] ok   %s\n", e.Done, e.Total, truncateURL(e.URL, 60))
		case job.BatchFailed:
			fmt.Fprintf(deps.Stderr, "  [%d/%d] fail %s: %s\n", e.Done, e.Total, truncateURL(e.URL, 60), georender.ErrorMessage(e.Err))
		}
	}

	result, err := batch.RenderAll(deps.Ctx, urls, opts, progress)
	if err != nil {
		return err
	}

	format := georender.OutputFormat(c.Format)
	saved, failed := 0, result.Failed
	for _, item := range result.Items {
		if item.Err != nil {
			continue
		}
		out, err := buildOutput(deps, item.URL, item.Result, format, c.Extractor)
		if err == nil && c.Screenshots {
			out.Screenshot, err = decodeScreenshot(item.Result.Screenshot)
			out.ScreenshotFormat = georender.ScreenshotPNG
			if opts.ScreenshotFormat != nil {
				out.ScreenshotFormat = *opts.ScreenshotFormat
			}
		}
		if err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", item.URL, err)
			continue
		}
		if _, err := writer.WriteOutput(deps.Ctx, out); err != nil {
			return fmt.Errorf("saving %s: %w", item.URL, err)
		}
		saved++
	}

	fmt.Fprintf(deps.Stdout, "Saved %d pages to %s (%d failed)\n", saved, c.Dir, failed)
	if saved == 0 {
		return georender.Errorf(georender.EFAILED, "all %d renders failed", len(urls))
	}
	return nil
}

// collectURLs merges positional URLs with sitemap discoveries, keeping
// first occurrences and applying the limit.
func (c *BatchCmd) collectURLs(deps *Dependencies) ([]string, error) {
	urls := append([]string(nil), c.URLs...)

	if c.Sitemap != "" {
		filter, err := georender.NewURLFilter(c.Filter, c.Exclude)
		if err != nil {
			return nil, err
		}
		found, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, c.Sitemap, filter)
		if err != nil {
			return nil, fmt.Errorf("sitemap discovery: %w", err)
		}
		urls = append(urls, found...)
	}

	seen := make(map[string]bool, len(urls))
	unique := urls[:0]
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		unique = append(unique, u)
	}
	if c.Limit > 0 && len(unique) > c.Limit {
		unique = unique[:c.Limit]
	}
	return unique, nil
}
