package main

import (
	"fmt"

	"github.com/fwojciec/searchtext"
)

// Run executes the sheet command.
func (c *SheetCmd) Run(deps *Dependencies) error {
	text, err := deps.Transformer.ExtractSpreadsheetText(deps.Ctx, searchtext.AssetRef(c.Asset))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", searchtext.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, text)
	return nil
}
