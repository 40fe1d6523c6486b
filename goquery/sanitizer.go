// Package goquery provides DOM-based implementations of webclip.Sanitizer
// and webclip.Extractor for cleaning and capturing page content.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fkozlowski/webclip"
	"golang.org/x/net/html"
)

// Ensure Sanitizer implements webclip.Sanitizer at compile time.
var _ webclip.Sanitizer = (*Sanitizer)(nil)

// denyTags lists tags whose entire subtree is removed. Fixed by contract.
var denyTags = []string{
	"script", "style", "iframe", "object", "embed", "link", "meta", "base",
	"form", "input", "button", "textarea", "select", "applet", "audio", "video",
}

var denySelector = strings.Join(denyTags, ", ")

// allowedAttrs is the attribute allow-list. Everything else is removed.
var allowedAttrs = map[string]bool{
	"href":  true,
	"src":   true,
	"alt":   true,
	"title": true,
}

// dangerousSchemes are dropped from href values after lowercasing and
// trimming, before any resolution is attempted.
var dangerousSchemes = []string{"javascript:", "data:", "vbscript:", "file:"}

// Sanitizer strips dangerous markup from untrusted HTML fragments using a
// structural (parsed DOM) pass: deny-listed subtrees are removed, attributes
// are reduced to a narrow allow-list, event handlers are dropped
// unconditionally, and relative references are resolved against the page URL.
type Sanitizer struct{}

// NewSanitizer creates a new Sanitizer.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// Sanitize cleans the fragment and returns HTML safe to store and re-render.
func (s *Sanitizer) Sanitize(fragment, pageURL string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", webclip.Errorf(webclip.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", webclip.Errorf(webclip.EINVALID, "failed to parse HTML: %v", err)
	}

	// Remove deny-listed subtrees across the whole document; the parser
	// relocates head-only tags (meta, link, base) out of the body, so the
	// search must not be scoped to it.
	doc.Find(denySelector).Remove()

	doc.Find("body *").Each(func(_ int, sel *goquery.Selection) {
		for _, n := range sel.Nodes {
			if n.Type == html.ElementNode {
				n.Attr = sanitizeAttrs(n.Attr, base)
			}
		}
	})

	removeEmptyElements(doc)

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", webclip.Errorf(webclip.EINTERNAL, "failed to render sanitized HTML: %v", err)
	}
	return out, nil
}

// sanitizeAttrs reduces an attribute list to the allow-list, dropping event
// handlers and unsafe or unresolvable URL values.
func sanitizeAttrs(attrs []html.Attribute, base *url.URL) []html.Attribute {
	var out []html.Attribute
	for _, a := range attrs {
		key := strings.ToLower(a.Key)

		// Covers event handlers regardless of the allow-list outcome.
		if strings.HasPrefix(key, "on") {
			continue
		}
		if !allowedAttrs[key] {
			continue
		}

		switch key {
		case "href":
			v, ok := safeHref(a.Val, base)
			if !ok {
				continue
			}
			a.Val = v
		case "src":
			v, ok := safeSrc(a.Val, base)
			if !ok {
				continue
			}
			a.Val = v
		}

		out = append(out, a)
	}
	return out
}

// safeHref validates an href value. Script-capable schemes are dropped,
// absolute http(s) URLs and same-page fragments pass through, and anything
// else is rewritten to an absolute URL resolved against the page location.
func safeHref(v string, base *url.URL) (string, bool) {
	trimmed := strings.TrimSpace(v)
	lower := strings.ToLower(trimmed)

	for _, scheme := range dangerousSchemes {
		if strings.HasPrefix(lower, scheme) {
			return "", false
		}
	}
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return trimmed, true
	}
	if strings.HasPrefix(trimmed, "#") {
		return trimmed, true
	}
	return resolveRelative(base, trimmed)
}

// safeSrc validates a src value. Absolute http(s) URLs and inline images
// pass through unchanged; relative references are resolved against the page
// location and everything else is dropped.
func safeSrc(v string, base *url.URL) (string, bool) {
	trimmed := strings.TrimSpace(v)
	lower := strings.ToLower(trimmed)

	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return trimmed, true
	}
	if strings.HasPrefix(lower, "data:image/") {
		return trimmed, true
	}
	return resolveRelative(base, trimmed)
}

// resolveRelative resolves a relative reference against the page URL.
// Absolute references of any other scheme (mailto:, data:, ...) are dropped,
// as is anything that fails to parse or resolves outside http(s).
func resolveRelative(base *url.URL, ref string) (string, bool) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	if u.IsAbs() {
		return "", false
	}
	abs := base.ResolveReference(u)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	return abs.String(), true
}

// removeEmptyElements drops elements left with no text content after tag
// removal, unless they are images or contain one. Runs in document order so
// an empty wrapper goes before its (equally empty) children are visited.
func removeEmptyElements(doc *goquery.Document) {
	doc.Find("body *").Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) == "img" {
			return
		}
		if sel.Find("img").Length() > 0 {
			return
		}
		if strings.TrimSpace(sel.Text()) == "" {
			sel.Remove()
		}
	})
}
