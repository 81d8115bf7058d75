package main

import (
	"fmt"

	"github.com/fwojciec/searchtext"
)

// Run executes the matrix command.
func (c *MatrixCmd) Run(deps *Dependencies) error {
	entry, err := findEntry(deps, c.ID)
	if err != nil {
		return err
	}

	warnEmptyFilter(deps, c.FilterFlags)

	text, err := deps.Transformer.ExtractMatrixText(deps.Ctx, entry, c.Handle, c.Filter())
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", searchtext.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, text)
	return nil
}
