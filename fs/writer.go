// Package fs stores rendered pages on the local file system.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/georender"
)

// URLToPath converts a page URL to a relative file path with extension ext,
// grouped by host. A query string is folded into a short hash suffix so
// pages that differ only by query do not collide.
//
//	https://example.com/shop/shoes     → example.com/shop/shoes.md
//	https://example.com/shop/          → example.com/shop/index.md
//	https://example.com/search?q=boots → example.com/search_1a2b3c4d.md
func URLToPath(rawURL, ext string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", georender.Errorf(georender.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return "", georender.Errorf(georender.EINVALID, "URL %q has no host", rawURL)
	}

	p := u.Path
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index"
	}
	p = strings.TrimPrefix(path.Clean("/"+p), "/")

	if u.RawQuery != "" {
		p += fmt.Sprintf("_%08x", uint32(xxhash.Sum64String(u.RawQuery)))
	}

	return filepath.Join(u.Hostname(), filepath.FromSlash(p)) + "." + ext, nil
}

// ContentHash returns the hex xxhash of body.
func ContentHash(body string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(body))
}

// FormatMarkdown prefixes a Markdown body with YAML frontmatter.
func FormatMarkdown(out *georender.Output, rendered time.Time) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(out.URL)
	if out.Title != "" {
		b.WriteString("\ntitle: ")
		b.WriteString(out.Title)
	}
	b.WriteString("\nrendered: ")
	b.WriteString(rendered.UTC().Format(time.RFC3339))
	b.WriteString("\nhash: ")
	b.WriteString(ContentHash(out.Body))
	b.WriteString("\n---\n\n")
	b.WriteString(out.Body)
	return b.String()
}

// Ensure Writer implements georender.OutputWriter at compile time.
var _ georender.OutputWriter = (*Writer)(nil)

// Writer writes rendered pages below a base directory. Files are replaced
// atomically so readers never observe partial content.
type Writer struct {
	baseDir string
	now     func() time.Time
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithNow sets the clock used for frontmatter timestamps.
func WithNow(now func() time.Time) WriterOption {
	return func(w *Writer) { w.now = now }
}

// NewWriter creates a new Writer that writes to baseDir.
func NewWriter(baseDir string, opts ...WriterOption) *Writer {
	w := &Writer{baseDir: baseDir, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteOutput writes out's body and, if present, its screenshot next to it.
// It returns the path of the body file.
func (w *Writer) WriteOutput(ctx context.Context, out *georender.Output) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var ext, content string
	switch out.Format {
	case georender.FormatMarkdown:
		ext, content = "md", FormatMarkdown(out, w.now())
	case georender.FormatHTML, "":
		ext, content = "html", out.Body
	default:
		return "", georender.Errorf(georender.EINVALID, "unsupported output format %q", out.Format)
	}

	relPath, err := URLToPath(out.URL, ext)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(w.baseDir, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", err
	}
	if err := writeFileAtomic(fullPath, []byte(content)); err != nil {
		return "", err
	}

	if len(out.Screenshot) > 0 {
		format := out.ScreenshotFormat
		if format == "" {
			format = georender.ScreenshotPNG
		}
		shot := strings.TrimSuffix(fullPath, "."+ext) + "." + string(format)
		if err := writeFileAtomic(shot, out.Screenshot); err != nil {
			return "", err
		}
	}

	return fullPath, nil
}

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".georender-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
