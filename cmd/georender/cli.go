package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/georender"
	"github.com/fwojciec/georender/job"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Controller *job.Controller
	Sitemaps   georender.SitemapService
	Extractors map[string]georender.Extractor
	Converter  georender.Converter
	Inspector  georender.Inspector

	// Writer overrides the file system writer used by batch.
	Writer georender.OutputWriter
}

// Globals are flags shared by all commands.
type Globals struct {
	APIKey  string        `name:"api-key" env:"GEORENDER_API_KEY" required:"" help:"API key for the rendering service"`
	BaseURL string        `name:"base-url" env:"GEORENDER_BASE_URL" help:"Override the service base URL"`
	Timeout time.Duration `default:"30s" help:"Timeout for each service request"`
	Verbose bool          `short:"v" help:"Log service calls to stderr"`
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Globals

	Render  RenderCmd  `cmd:"" help:"Render a URL and print the result"`
	Status  StatusCmd  `cmd:"" help:"Show the current state of a render"`
	Balance BalanceCmd `cmd:"" help:"Show the account balance"`
	Batch   BatchCmd   `cmd:"" help:"Render many URLs and save them to a directory"`
}

// RenderFlags are the rendering options shared by render and batch.
type RenderFlags struct {
	Country           string   `short:"C" help:"Two-letter exit country code"`
	City              string   `help:"City slug, e.g. us.new-york"`
	FetchURL          []string `name:"fetch-url" sep:"none" help:"Additional URL to fetch in the page session (repeatable)"`
	Wait              []string `short:"w" sep:"none" help:"Wait action: delay:500ms, selector:#main[:state], text:Hello[@.sel], click:#btn (repeatable)"`
	Captcha           string   `help:"CAPTCHA handling: disabled, auto, recaptcha_v2, recaptcha_v3, turnstile"`
	BlockImages       *bool    `name:"block-images" help:"Block image loading (--block-images=false to allow)"`
	ScreenshotFormat  string   `name:"screenshot-format" help:"Screenshot image format: png, jpeg, webp"`
	ScreenshotQuality int      `name:"screenshot-quality" help:"Screenshot quality 1-100 (jpeg, webp)"`
	FullPage          bool     `name:"full-page" help:"Capture the full scrollable page"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	ID   string `arg:"" help:"Render ID"`
	JSON bool   `help:"Print the raw decoded result as JSON"`
}

// BalanceCmd is the "balance" subcommand.
type BalanceCmd struct {
	JSON bool `help:"Print the balance as JSON"`
}
