package main

import (
	"fmt"

	"github.com/fwojciec/searchtext"
)

// Run executes the images command.
func (c *ImagesCmd) Run(deps *Dependencies) error {
	entry, err := findEntry(deps, c.ID)
	if err != nil {
		return err
	}

	var urls []string
	if c.First {
		var url string
		url, err = deps.Transformer.FirstImage(deps.Ctx, entry, c.Handle)
		if url != "" {
			urls = []string{url}
		}
	} else {
		urls, err = deps.Transformer.ImageURLs(deps.Ctx, entry, c.Handle)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", searchtext.ErrorMessage(err))
		return err
	}

	for _, url := range urls {
		fmt.Fprintln(deps.Stdout, url)
	}
	return nil
}
