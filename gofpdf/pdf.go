// Package gofpdf assembles a captured page image into a paginated A4 PDF.
package gofpdf

import (
	"bytes"
	"math"

	"github.com/fkozlowski/webclip"
	"github.com/jung-kurt/gofpdf"
)

// Ensure Builder implements webclip.PDFBuilder at compile time.
var _ webclip.PDFBuilder = (*Builder)(nil)

// A4 portrait geometry in millimeters.
const (
	PaperWidth  = 210.0
	PaperHeight = 297.0
	Margin      = 10.0
)

// UsableWidth is the page width available to content.
const UsableWidth = PaperWidth - 2*Margin

// UsableHeight is the page height available to content.
const UsableHeight = PaperHeight - 2*Margin

// Builder paginates one tall page image into a multi-page PDF. The same
// full image is drawn on every page at an offset shifted up by one usable
// page height each time; the viewer's page clipping does the slicing, so no
// per-page re-encoding happens.
type Builder struct{}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Paginate computes the vertical image offsets, one per page, for an image
// of the given pixel dimensions scaled to the usable page width. The offset
// for page k is Margin - k*UsableHeight.
func Paginate(srcWidth, srcHeight int) ([]float64, error) {
	if srcWidth <= 0 || srcHeight <= 0 {
		return nil, webclip.Errorf(webclip.EINVALID, "invalid image dimensions %dx%d", srcWidth, srcHeight)
	}

	scaledHeight := float64(srcHeight) * UsableWidth / float64(srcWidth)
	pages := int(math.Ceil(scaledHeight / UsableHeight))
	if pages < 1 {
		pages = 1
	}

	offsets := make([]float64, pages)
	for k := range offsets {
		offsets[k] = Margin - float64(k)*UsableHeight
	}
	return offsets, nil
}

// Build renders the image into a PDF document.
func (b *Builder) Build(img *webclip.PageImage) (*webclip.PDFDocument, error) {
	offsets, err := Paginate(img.Width, img.Height)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")

	opts := gofpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader("page", opts, bytes.NewReader(img.Data))
	if pdf.Err() {
		return nil, webclip.Errorf(webclip.EPDF, "page capture failed: %v", pdf.Error())
	}

	for _, y := range offsets {
		pdf.AddPage()
		// Height 0 keeps the source aspect ratio at the usable width.
		pdf.ImageOptions("page", Margin, y, UsableWidth, 0, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, webclip.Errorf(webclip.EPDF, "pdf encoding failed: %v", err)
	}

	return &webclip.PDFDocument{Data: buf.Bytes(), Pages: len(offsets)}, nil
}
