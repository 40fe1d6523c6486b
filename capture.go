package webclip

// CaptureMode selects which part of a page gets captured.
type CaptureMode string

// Valid capture modes. There is no default: an unrecognized mode is
// rejected before extraction is attempted.
const (
	CaptureSelection CaptureMode = "selection"
	CaptureFullPage  CaptureMode = "page"
	CaptureURLOnly   CaptureMode = "url"
	CapturePDF       CaptureMode = "pdf"
)

// ParseCaptureMode validates a mode string. It fails closed: missing or
// unknown values return EINVALID rather than silently defaulting.
func ParseCaptureMode(s string) (CaptureMode, error) {
	switch CaptureMode(s) {
	case CaptureSelection, CaptureFullPage, CaptureURLOnly, CapturePDF:
		return CaptureMode(s), nil
	case "":
		return "", Errorf(EINVALID, "capture mode required")
	default:
		return "", Errorf(EINVALID, "unsupported capture mode %q", s)
	}
}

// CaptureRequest describes what to capture from a page.
type CaptureRequest struct {
	Mode CaptureMode

	// Selector stands in for the browser's text selection when Mode is
	// CaptureSelection: the subtree(s) it matches are captured. Ignored
	// for the other modes.
	Selector string
}

// CapturedContent is the immutable result of a capture: sanitized HTML and
// its plain-text equivalent. It is produced once per capture and discarded
// after it is embedded into a document-update fragment.
type CapturedContent struct {
	HTML string
	Text string
}

// Source identifies the page a clip was captured from.
type Source struct {
	URL   string
	Title string
}

// Extractor selects the part of a rendered page to capture and returns it
// sanitized.
type Extractor interface {
	// Extract processes the rendered page HTML according to the request.
	// Returns EEXTRACTION if the requested content is empty (e.g. nothing
	// selected) and EINVALID for an unsupported mode.
	Extract(pageHTML, pageURL string, req CaptureRequest) (*CapturedContent, error)
}

// Sanitizer strips dangerous markup from an untrusted HTML fragment.
// Output must never contain an executable script reference or an event
// handler attribute, even when the source page is adversarial.
type Sanitizer interface {
	// Sanitize cleans the fragment. Relative href/src values are resolved
	// against pageURL; unresolvable ones are dropped.
	Sanitize(fragment, pageURL string) (string, error)
}
