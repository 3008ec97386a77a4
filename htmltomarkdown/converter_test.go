package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/georender"
	"github.com/fwojciec/georender/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts headings and paragraphs", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<h1>Prices</h1><h2>Germany</h2><p>Shipping is free.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "# Prices")
		assert.Contains(t, md, "## Germany")
		assert.Contains(t, md, "Shipping is free.")
	})

	t.Run("converts links and lists", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<ul><li><a href="https://example.com/a">A</a></li><li>B</li></ul>`)

		require.NoError(t, err)
		assert.Contains(t, md, "- [A](https://example.com/a)")
		assert.Contains(t, md, "- B")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<table><thead><tr><th>Country</th><th>Price</th></tr></thead><tbody><tr><td>DE</td><td>129</td></tr></tbody></table>`)

		require.NoError(t, err)
		assert.Contains(t, md, "| Country | Price |")
		assert.Contains(t, md, "| DE")
	})

	t.Run("resolves relative links against the domain", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter(htmltomarkdown.WithDomain("https://shop.example.com"))
		md, err := conv.Convert(`<p><a href="/sizing">Sizing</a></p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "(https://shop.example.com/sizing)")
	})

	t.Run("ends with a single newline", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert("<p>one</p>\n\n\n")

		require.NoError(t, err)
		assert.Equal(t, "one\n", md)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("   ")

		require.Error(t, err)
		assert.Equal(t, georender.EINVALID, georender.ErrorCode(err))
	})
}
