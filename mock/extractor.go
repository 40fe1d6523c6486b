package mock

import (
	"github.com/fkozlowski/webclip"
)

var _ webclip.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of webclip.Extractor.
type Extractor struct {
	ExtractFn func(pageHTML, pageURL string, req webclip.CaptureRequest) (*webclip.CapturedContent, error)
}

func (e *Extractor) Extract(pageHTML, pageURL string, req webclip.CaptureRequest) (*webclip.CapturedContent, error) {
	return e.ExtractFn(pageHTML, pageURL, req)
}

var _ webclip.Sanitizer = (*Sanitizer)(nil)

// Sanitizer is a mock implementation of webclip.Sanitizer.
type Sanitizer struct {
	SanitizeFn func(fragment, pageURL string) (string, error)
}

func (s *Sanitizer) Sanitize(fragment, pageURL string) (string, error) {
	return s.SanitizeFn(fragment, pageURL)
}
