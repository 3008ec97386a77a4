package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/georender"
	"github.com/fwojciec/georender/compress"
	"github.com/fwojciec/georender/goquery"
	"github.com/fwojciec/georender/htmltomarkdown"
	grhttp "github.com/fwojciec/georender/http"
	"github.com/fwojciec/georender/job"
	"github.com/fwojciec/georender/readability"
	grslog "github.com/fwojciec/georender/slog"
	"github.com/fwojciec/georender/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", errorText(err))
		os.Exit(1)
	}
}

// errorText returns the user-facing message for err. Errors without an
// application code are printed as is.
func errorText(err error) string {
	if georender.ErrorCode(err) == georender.EINTERNAL {
		return err.Error()
	}
	return georender.ErrorMessage(err)
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. When nil, the HTTP implementations
	// are used.
	RenderService  georender.RenderService
	SitemapService georender.SitemapService

	// Config overrides the job lifecycle configuration.
	Config job.Config
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Config: job.DefaultConfig()}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("georender"),
		kong.Description("Render web pages from chosen locations with the georender service."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'georender --help' to see available commands")
	}
	switch args[0] {
	case "help", "--help", "-h":
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	m.wire(deps, &cli.Globals)

	return kongCtx.Run(deps)
}

// wire builds the services for a parsed command line.
func (m *Main) wire(deps *Dependencies, g *Globals) {
	render := m.RenderService
	if render == nil {
		opts := []grhttp.Option{grhttp.WithTimeout(g.Timeout)}
		if g.BaseURL != "" {
			opts = append(opts, grhttp.WithBaseURL(g.BaseURL))
		}
		render = grhttp.NewClient(g.APIKey, opts...)
	}

	sitemaps := m.SitemapService
	var sitemapLog []grslog.SitemapLogOption
	if sitemaps == nil {
		sitemaps = grhttp.NewSitemapService(nil)
		sitemapLog = append(sitemapLog, grslog.WithURLLimit(grhttp.DefaultMaxSitemapURLs))
	}

	if g.Verbose {
		logger := slog.New(slog.NewTextHandler(deps.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		render = grslog.NewLoggingRenderService(render, logger)
		sitemaps = grslog.NewLoggingSitemapService(sitemaps, logger, sitemapLog...)
	}

	deps.Controller = &job.Controller{
		Service: render,
		Decoder: compress.NewDecoder(),
		Config:  m.Config,
	}
	deps.Sitemaps = sitemaps
	deps.Extractors = map[string]georender.Extractor{
		"trafilatura": trafilatura.NewExtractor(trafilatura.WithLinks()),
		"readability": readability.NewExtractor(),
	}
	deps.Converter = htmltomarkdown.NewConverter()
	deps.Inspector = goquery.NewInspector()
}
