package main

import (
	"fmt"

	"github.com/fkozlowski/webclip"
)

// Run executes the auth command.
func (c *AuthCmd) Run(deps *Dependencies) error {
	if err := deps.Clipper.Authenticate(deps.Ctx, c.ServerURL, c.APIKey); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.UserMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Authenticated against %s\n", c.ServerURL)
	return nil
}

// Run executes the logout command.
func (c *LogoutCmd) Run(deps *Dependencies) error {
	if err := deps.Sessions.Clear(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.UserMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, "Session cleared.")
	return nil
}
