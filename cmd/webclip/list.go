package main

import (
	"fmt"

	"github.com/fkozlowski/webclip"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	page, err := deps.Clipper.Documents(deps.Ctx, c.Page)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.UserMessage(err))
		return err
	}

	if len(page.Documents) == 0 {
		fmt.Fprintln(deps.Stdout, "No documents found.")
		return nil
	}

	for _, d := range page.Documents {
		fmt.Fprintf(deps.Stdout, "%d  %s  %s\n", d.ID, d.GlobalID, d.Name)
	}
	if page.HasMore {
		fmt.Fprintf(deps.Stdout, "More documents available. Use --page %d to see the next page.\n", c.Page+1)
	}

	return nil
}
