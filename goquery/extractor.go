package goquery

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fkozlowski/webclip"
)

// Ensure Extractor implements webclip.Extractor at compile time.
var _ webclip.Extractor = (*Extractor)(nil)

// fullPageCandidates are tried in priority order to find the main content
// root for full-page capture; the document body is the fallback.
var fullPageCandidates = []string{"main", "article", "[role=main]", ".content", "#content"}

// fullPageStrip lists subtrees removed from the capture root before the
// structural sanitizer runs.
const fullPageStrip = "script, style, nav, header, footer, iframe"

// Extractor captures a selection, the main page content, or a URL-only
// reference from rendered page HTML.
type Extractor struct {
	sanitizer webclip.Sanitizer
}

// NewExtractor creates a new Extractor that sanitizes captured fragments
// with the given sanitizer.
func NewExtractor(sanitizer webclip.Sanitizer) *Extractor {
	return &Extractor{sanitizer: sanitizer}
}

// Extract processes the rendered page HTML according to the request.
func (e *Extractor) Extract(pageHTML, pageURL string, req webclip.CaptureRequest) (*webclip.CapturedContent, error) {
	switch req.Mode {
	case webclip.CaptureSelection:
		return e.extractSelection(pageHTML, pageURL, req.Selector)
	case webclip.CaptureFullPage:
		return e.extractFullPage(pageHTML, pageURL)
	case webclip.CaptureURLOnly:
		return extractURLOnly(pageHTML, pageURL), nil
	default:
		return nil, webclip.Errorf(webclip.EINVALID, "unsupported capture mode %q", req.Mode)
	}
}

// extractSelection captures the subtrees matched by the selector. An empty
// or whitespace-only match means nothing is selected.
func (e *Extractor) extractSelection(pageHTML, pageURL, selector string) (*webclip.CapturedContent, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, webclip.Errorf(webclip.EEXTRACTION, "nothing selected")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, webclip.Errorf(webclip.EINVALID, "failed to parse page HTML: %v", err)
	}

	sel := doc.Find(selector)
	text := strings.TrimSpace(sel.Text())
	if sel.Length() == 0 || text == "" {
		return nil, webclip.Errorf(webclip.EEXTRACTION, "nothing selected")
	}

	var raw strings.Builder
	sel.Each(func(_ int, s *goquery.Selection) {
		h, err := goquery.OuterHtml(s)
		if err != nil {
			return
		}
		raw.WriteString(h)
	})

	clean, err := e.sanitizer.Sanitize(raw.String(), pageURL)
	if err != nil {
		return nil, err
	}

	return &webclip.CapturedContent{HTML: clean, Text: text}, nil
}

// extractFullPage captures the first matching content root, with
// boilerplate subtrees stripped before sanitization.
func (e *Extractor) extractFullPage(pageHTML, pageURL string) (*webclip.CapturedContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, webclip.Errorf(webclip.EINVALID, "failed to parse page HTML: %v", err)
	}

	root := doc.Find("body")
	for _, candidate := range fullPageCandidates {
		if m := doc.Find(candidate); m.Length() > 0 {
			root = m.First()
			break
		}
	}

	root.Find(fullPageStrip).Remove()
	text := strings.TrimSpace(root.Text())

	raw, err := goquery.OuterHtml(root)
	if err != nil {
		return nil, webclip.Errorf(webclip.EINTERNAL, "failed to render page content: %v", err)
	}

	clean, err := e.sanitizer.Sanitize(raw, pageURL)
	if err != nil {
		return nil, err
	}

	return &webclip.CapturedContent{HTML: clean, Text: text}, nil
}

// extractURLOnly produces a fixed link template without capturing the DOM.
// The title comes from the page <title> when available, falling back to the
// URL itself.
func extractURLOnly(pageHTML, pageURL string) *webclip.CapturedContent {
	title := ""
	if pageHTML != "" {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML)); err == nil {
			title = strings.TrimSpace(doc.Find("title").First().Text())
		}
	}
	if title == "" {
		title = pageURL
	}

	return &webclip.CapturedContent{
		HTML: fmt.Sprintf(`Page: <a href="%s">%s</a>`, html.EscapeString(pageURL), html.EscapeString(title)),
		Text: fmt.Sprintf("%s: %s", title, pageURL),
	}
}
