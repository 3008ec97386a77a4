package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/georender"
)

// RenderCmd is the "render" subcommand.
type RenderCmd struct {
	URL string `arg:"" help:"URL to render"`

	RenderFlags

	Screenshot string `type:"path" placeholder:"FILE" help:"Capture a screenshot and save it to FILE"`
	Format     string `short:"f" enum:"html,markdown,summary,json" default:"html" help:"Output format (html, markdown, summary, json)"`
	Extractor  string `enum:"trafilatura,readability,none" default:"trafilatura" help:"Main content extractor for markdown (trafilatura, readability, none)"`
	Output     string `short:"o" type:"path" placeholder:"FILE" help:"Write output to FILE instead of stdout"`
	Quiet      bool   `short:"q" help:"Do not print progress"`
}

// Run executes the render command.
func (c *RenderCmd) Run(deps *Dependencies) error {
	opts, err := c.Options(c.Screenshot != "")
	if err != nil {
		return err
	}

	progress := func(e georender.ProgressEvent) {
		if !c.Quiet {
			printProgress(deps.Stderr, e)
		}
	}

	result, err := deps.Controller.Render(deps.Ctx, c.URL, opts, progress)
	if err != nil {
		return err
	}

	if c.Screenshot != "" {
		img, err := decodeScreenshot(result.Screenshot)
		if err != nil {
			return err
		}
		if err := os.WriteFile(c.Screenshot, img, 0644); err != nil {
			return fmt.Errorf("saving screenshot: %w", err)
		}
		if !c.Quiet {
			fmt.Fprintf(deps.Stderr, "  screenshot saved to %s (%s)\n", c.Screenshot, formatBytes(len(img)))
		}
	}

	var body string
	switch c.Format {
	case "json":
		b, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		body = string(b) + "\n"
	case "summary":
		info, err := deps.Inspector.Inspect(result.HTML, c.URL)
		if err != nil {
			return err
		}
		body = formatSummary(c.URL, result, info)
	case "markdown":
		out, err := buildOutput(deps, c.URL, result, georender.FormatMarkdown, c.Extractor)
		if err != nil {
			return err
		}
		body = out.Body
	default:
		body = result.HTML
	}

	if c.Output == "" {
		_, err := io.WriteString(deps.Stdout, body)
		return err
	}
	if err := os.WriteFile(c.Output, []byte(body), 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if !c.Quiet {
		fmt.Fprintf(deps.Stderr, "  saved %s (%s)\n", c.Output, formatBytes(len(body)))
	}
	return nil
}

// buildOutput prepares a completed render for writing in format. For
// markdown the main content is extracted first unless extractor is "none".
func buildOutput(deps *Dependencies, url string, result *georender.Result, format georender.OutputFormat, extractor string) (*georender.Output, error) {
	out := &georender.Output{URL: url, Format: format, Body: result.HTML}

	if format == georender.FormatMarkdown {
		content := result.HTML
		if ex, ok := deps.Extractors[extractor]; ok {
			extracted, err := ex.Extract(result.HTML)
			if err != nil {
				return nil, fmt.Errorf("extracting content: %w", err)
			}
			out.Title = extracted.Title
			if extracted.ContentHTML != "" {
				content = extracted.ContentHTML
			}
		}
		md, err := deps.Converter.Convert(content)
		if err != nil {
			return nil, fmt.Errorf("converting to markdown: %w", err)
		}
		out.Body = md
	}

	return out, nil
}
