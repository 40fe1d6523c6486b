package webclip

import (
	"context"
	"encoding/base64"
)

// PageImage is a raster capture of a full page at its scroll dimensions.
type PageImage struct {
	// Data is the encoded image (JPEG).
	Data []byte

	// Width and Height are the pixel dimensions of the image.
	Width  int
	Height int
}

// PDFDocument is an assembled, paginated PDF.
type PDFDocument struct {
	Data  []byte
	Pages int
}

// DataURL returns the document as a base64 data URL embedding the whole
// PDF, the format handed back to message-surface callers.
func (d *PDFDocument) DataURL() string {
	return "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(d.Data)
}

// Rasterizer captures a rendered page as a single raster image covering the
// page's full scroll height, not just the viewport.
type Rasterizer interface {
	// CapturePage returns the page rendered as one tall image on a white
	// background. Capture or encoding failures are reported as EPDF with
	// the triggering message.
	CapturePage(ctx context.Context, url string) (*PageImage, error)

	// Close releases browser resources.
	Close() error
}

// PDFBuilder paginates one tall page image into a multi-page PDF.
type PDFBuilder interface {
	Build(img *PageImage) (*PDFDocument, error)
}
