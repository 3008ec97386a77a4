package georender

import "context"

// ExtractResult holds the main content extracted from rendered HTML.
type ExtractResult struct {
	// Title is the page title taken from metadata.
	Title string

	// ContentHTML is the main content with boilerplate removed.
	ContentHTML string
}

// Extractor extracts the main content from rendered HTML.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	Convert(html string) (string, error)
}

// PageInfo summarizes a rendered page.
type PageInfo struct {
	Title       string
	Description string
	Canonical   string

	// Links are absolute http(s) link targets in document order, deduplicated.
	Links []string
}

// Inspector summarizes rendered HTML. baseURL resolves relative links.
type Inspector interface {
	Inspect(html string, baseURL string) (*PageInfo, error)
}

// OutputFormat selects how a rendered page is saved or printed.
type OutputFormat string

// Output formats.
const (
	FormatHTML     OutputFormat = "html"
	FormatMarkdown OutputFormat = "markdown"
)

// Output is a rendered page ready to be written out.
type Output struct {
	URL    string
	Title  string
	Format OutputFormat

	// Body is the HTML or Markdown content, depending on Format.
	Body string

	// Screenshot holds the decoded image bytes, if one was captured.
	Screenshot       []byte
	ScreenshotFormat ScreenshotFormat
}

// OutputWriter persists rendered pages.
type OutputWriter interface {
	// WriteOutput stores out and returns the path of the written body.
	WriteOutput(ctx context.Context, out *Output) (string, error)
}
