package main

import (
	"fmt"

	"github.com/fwojciec/searchtext"
)

// Run executes the titles command.
func (c *TitlesCmd) Run(deps *Dependencies) error {
	entry, err := findEntry(deps, c.ID)
	if err != nil {
		return err
	}

	titles, err := deps.Transformer.RelatedTitles(deps.Ctx, entry, c.Handle)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", searchtext.ErrorMessage(err))
		return err
	}

	for _, title := range titles {
		fmt.Fprintln(deps.Stdout, title)
	}
	return nil
}
