package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/searchtext"
)

// Run executes the chunk command. Each chunk is printed on its own line.
func (c *ChunkCmd) Run(deps *Dependencies) error {
	data, err := io.ReadAll(deps.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	chunks, err := deps.Transformer.ChunkText(string(data), c.Size)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", searchtext.ErrorMessage(err))
		return err
	}

	for _, chunk := range chunks {
		fmt.Fprintln(deps.Stdout, chunk)
	}
	return nil
}
