package main

import (
	"fmt"

	"github.com/fkozlowski/webclip"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := webclip.ClipFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.SourceURL = &c.URL
	}

	clips, err := deps.History.FindClips(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.UserMessage(err))
		return err
	}

	if len(clips) == 0 {
		fmt.Fprintln(deps.Stdout, "No clips recorded yet.")
		return nil
	}

	for _, clip := range clips {
		title := clip.SourceTitle
		if title == "" {
			title = clip.SourceURL
		}
		fmt.Fprintf(deps.Stdout, "%s  doc %d (%s)  %s\n",
			clip.CreatedAt.Local().Format("2006-01-02 15:04"), clip.DocumentID, clip.GlobalID, title)
		if c.Full && clip.Markdown != "" {
			fmt.Fprintln(deps.Stdout, clip.Markdown)
			fmt.Fprintln(deps.Stdout)
		}
	}

	return nil
}
