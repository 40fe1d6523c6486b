package htmltomarkdown_test

import (
	"testing"

	"github.com/fkozlowski/webclip"
	"github.com/fkozlowski/webclip/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts a clipped article body", func(t *testing.T) {
		t.Parallel()

		html := `<h1>Title</h1><p>Some <strong>bold</strong> text with a ` +
			`<a href="https://example.com">link</a>.</p><ul><li>first</li><li>second</li></ul>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "# Title")
		assert.Contains(t, md, "**bold**")
		assert.Contains(t, md, "[link](https://example.com)")
		assert.Contains(t, md, "- first")
		assert.Contains(t, md, "- second")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		html := `<table><tr><th>Name</th><th>Value</th></tr><tr><td>a</td><td>1</td></tr></table>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "| Name | Value |")
		assert.Contains(t, md, "| a | 1 |")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()

		_, err := conv.Convert("   ")
		assert.Equal(t, webclip.EINVALID, webclip.ErrorCode(err))
	})

	t.Run("keeps attachment markers readable", func(t *testing.T) {
		t.Parallel()

		html := `<p><span class="inline-attachment" data-file-id="file-123">report.pdf</span></p>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "report.pdf")
	})
}
