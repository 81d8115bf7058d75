package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/searchtext"
	"github.com/fwojciec/searchtext/sqlite"
)

// Run executes the import command. Existing entries with the same ID are
// replaced.
func (c *ImportCmd) Run(deps *Dependencies) error {
	var r io.Reader = deps.Stdin
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", err)
			return err
		}
		defer f.Close()
		r = f
	}

	entries, err := sqlite.DecodeEntries(r)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", searchtext.ErrorMessage(err))
		return err
	}

	for _, entry := range entries {
		if err := deps.Entries.SaveEntry(deps.Ctx, entry); err != nil {
			fmt.Fprintf(deps.Stderr, "error: entry %q: %s\n", entry.ID, searchtext.ErrorMessage(err))
			return err
		}
	}

	fmt.Fprintf(deps.Stdout, "Imported %d entries\n", len(entries))
	return nil
}
