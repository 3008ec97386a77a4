package readability_test

import (
	"testing"

	"github.com/fwojciec/georender"
	"github.com/fwojciec/georender/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts the article body", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Local elections: turnout hits record high</title></head>
<body>
<header><nav><a href="/">News</a> <a href="/sport">Sport</a></nav></header>
<article>
<h1>Local elections: turnout hits record high</h1>
<p>Turnout in this year's local elections reached the highest level since records began, officials said on Monday evening after counting finished in all districts.</p>
<p>Analysts pointed to the extended opening hours of polling stations and a campaign that focused heavily on housing and public transport as reasons for the surge.</p>
<p>Final results will be certified by the electoral commission later this week, after the statutory period for challenges has passed.</p>
</article>
<aside>Most read: weather warnings for the weekend</aside>
</body>
</html>`

		result, err := readability.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.Title, "Local elections")
		assert.Contains(t, result.ContentHTML, "highest level since records began")
		assert.NotContains(t, result.ContentHTML, "Sport")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := readability.NewExtractor().Extract("")

		require.Error(t, err)
		assert.Equal(t, georender.EINVALID, georender.ErrorCode(err))
	})
}
