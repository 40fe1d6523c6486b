package clip

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/fkozlowski/webclip"
)

// timestampLayout formats the attribution timestamp.
const timestampLayout = "2006-01-02 15:04"

// BuildFragment composes the HTML block appended to a document: an escaped
// attribution paragraph, an optional escaped note paragraph, and the
// sanitized captured body. The exact structure is relied on by the remote
// renderer, so changes here are compatibility changes.
//
// The result goes through the post-assembly scrub so nothing introduced
// during composition can carry a handler or script reference.
func BuildFragment(source webclip.Source, note, bodyHTML string, now time.Time) string {
	var b strings.Builder

	b.WriteString("<div>")
	fmt.Fprintf(&b, `<p>Clipped from <a href="%s">%s</a> on %s</p>`,
		html.EscapeString(source.URL),
		html.EscapeString(source.Title),
		now.Format(timestampLayout))
	if strings.TrimSpace(note) != "" {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(note))
	}
	fmt.Fprintf(&b, "<div>%s</div>", bodyHTML)
	b.WriteString("</div>")

	return webclip.ScrubHTML(b.String())
}

// attachmentMarker is the provider-specific inline-attachment reference the
// remote renderer turns into an embedded file preview.
func attachmentMarker(fileID, filename string) string {
	return fmt.Sprintf(`<p><span class="inline-attachment" data-file-id="%s">%s</span></p>`,
		html.EscapeString(fileID), html.EscapeString(filename))
}

// pdfFilename derives an upload filename from the page title.
func pdfFilename(title string) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = "page"
	}
	// Strip characters that are unsafe in filenames.
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, name)
	if len(name) > 80 {
		name = name[:80]
	}
	return name + ".pdf"
}
