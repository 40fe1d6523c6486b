package main

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fkozlowski/webclip"
)

// Run executes the clip command.
func (c *ClipCmd) Run(deps *Dependencies) error {
	target, err := resolveTargetFlags(c.Doc, c.GlobalID, c.New)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.UserMessage(err))
		return err
	}

	mode, err := webclip.ParseCaptureMode(c.Mode)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.UserMessage(err))
		return err
	}
	if mode == webclip.CapturePDF {
		err := webclip.Errorf(webclip.EINVALID, "use the pdf command for PDF capture")
		fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.ErrorMessage(err))
		return err
	}

	pageHTML, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.UserMessage(err))
		return err
	}

	content, err := deps.Extractor.Extract(pageHTML, c.URL, webclip.CaptureRequest{
		Mode:     mode,
		Selector: c.Selector,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.UserMessage(err))
		return err
	}

	source := webclip.Source{URL: c.URL, Title: pageTitle(pageHTML, c.URL)}
	result, err := deps.Clipper.ClipContent(deps.Ctx, target, content, c.Note, source)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.UserMessage(err))
		return err
	}

	printClipResult(deps, result)
	return nil
}

// resolveTargetFlags maps the --doc/--new flags onto a target document.
// Exactly one of the two must be given.
func resolveTargetFlags(docID int64, globalID, newTitle string) (webclip.TargetDocument, error) {
	switch {
	case docID != 0 && newTitle != "":
		return nil, webclip.Errorf(webclip.EINVALID, "use either --doc or --new, not both")
	case docID != 0:
		return webclip.ExistingDocument{ID: docID, GlobalID: globalID}, nil
	case newTitle != "":
		return webclip.NewDocument{Title: newTitle}, nil
	default:
		return nil, webclip.Errorf(webclip.EINVALID, "a target document is required: pass --doc <id> or --new <title>")
	}
}

// pageTitle pulls the title out of the fetched page, falling back to the
// URL for untitled pages.
func pageTitle(pageHTML, url string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return url
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return url
	}
	return title
}

func printClipResult(deps *Dependencies, result *webclip.ClipResult) {
	fmt.Fprintf(deps.Stdout, "Clipped to document %d (%s)\n", result.DocumentID, result.GlobalID)
	if result.AlreadyClipped {
		fmt.Fprintln(deps.Stdout, "Note: this URL appears to have been clipped before.")
	}
}
