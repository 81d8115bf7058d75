package main

import (
	"fmt"

	"github.com/fwojciec/searchtext"
)

// Run executes the entry command.
func (c *EntryCmd) Run(deps *Dependencies) error {
	entry, err := findEntry(deps, c.ID)
	if err != nil {
		return err
	}

	warnEmptyFilter(deps, c.FilterFlags)

	text, err := deps.Transformer.ExtractEntryText(deps.Ctx, entry, c.Filter())
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", searchtext.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, text)
	return nil
}

// findEntry looks up an entry and reports failures on stderr.
func findEntry(deps *Dependencies, id string) (*searchtext.Entry, error) {
	entry, err := deps.Store.FindEntry(deps.Ctx, searchtext.EntryRef(id))
	if searchtext.ErrorCode(err) == searchtext.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: entry %q not found. Use 'searchtext import' to load content.\n", id)
		return nil, err
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", searchtext.ErrorMessage(err))
		return nil, err
	}
	return entry, nil
}

func warnEmptyFilter(deps *Dependencies, f FilterFlags) {
	if !f.All && len(f.Include) == 0 {
		fmt.Fprintln(deps.Stderr, "Hint: nothing is included without --include or --all")
	}
}
