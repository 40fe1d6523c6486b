package main

import (
	"fmt"

	"github.com/fkozlowski/webclip"
)

// Run executes the pdf command.
func (c *PDFCmd) Run(deps *Dependencies) error {
	target, err := resolveTargetFlags(c.Doc, c.GlobalID, c.New)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.UserMessage(err))
		return err
	}

	// The page title comes from a regular fetch; the rasterizer only
	// produces pixels.
	pageHTML, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.UserMessage(err))
		return err
	}

	source := webclip.Source{URL: c.URL, Title: pageTitle(pageHTML, c.URL)}
	result, err := deps.Clipper.ClipPDF(deps.Ctx, target, c.Note, source)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.UserMessage(err))
		return err
	}

	printClipResult(deps, result)
	return nil
}
