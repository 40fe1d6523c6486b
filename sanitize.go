package webclip

import "regexp"

// The post-assembly scrub is a defense-in-depth layer applied to the final
// composed fragment. The primary guarantee comes from the structural DOM
// pass in goquery/; this pass catches anything that survived it or was
// introduced while assembling the fragment.
var (
	scriptBlockRe   = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	openScriptRe    = regexp.MustCompile(`(?i)<script\b[^>]*>`)
	handlerDoubleRe = regexp.MustCompile(`(?i)\son\w+\s*=\s*"[^"]*"`)
	handlerSingleRe = regexp.MustCompile(`(?i)\son\w+\s*=\s*'[^']*'`)
	handlerBareRe   = regexp.MustCompile(`(?i)\son\w+\s*=\s*[^\s>]+`)
	jsSchemeRe      = regexp.MustCompile(`(?i)javascript:`)
	vbSchemeRe      = regexp.MustCompile(`(?i)vbscript:`)
)

// ScrubHTML strips script blocks, event handler attributes, and script
// scheme substrings from a composed HTML fragment.
func ScrubHTML(s string) string {
	s = scriptBlockRe.ReplaceAllString(s, "")
	s = openScriptRe.ReplaceAllString(s, "")
	s = handlerDoubleRe.ReplaceAllString(s, "")
	s = handlerSingleRe.ReplaceAllString(s, "")
	s = handlerBareRe.ReplaceAllString(s, "")
	s = jsSchemeRe.ReplaceAllString(s, "")
	s = vbSchemeRe.ReplaceAllString(s, "")
	return s
}
