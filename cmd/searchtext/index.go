package main

import (
	"fmt"
	"sync/atomic"

	"github.com/fwojciec/searchtext"
	"golang.org/x/sync/errgroup"
)

// Run executes the index command. Entries are extracted concurrently;
// entries that no longer exist are skipped with a warning.
func (c *IndexCmd) Run(deps *Dependencies) error {
	warnEmptyFilter(deps, c.FilterFlags)

	ids := make([]searchtext.EntryRef, 0, len(c.IDs))
	for _, id := range c.IDs {
		ids = append(ids, searchtext.EntryRef(id))
	}
	if len(ids) == 0 {
		var err error
		ids, err = deps.Entries.FindEntryIDs(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", searchtext.ErrorMessage(err))
			return err
		}
	}

	filter := c.Filter()
	var entries, records atomic.Int64

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(max(c.Concurrency, 1))
	for _, id := range ids {
		g.Go(func() error {
			entry, err := deps.Store.FindEntry(ctx, id)
			if searchtext.ErrorCode(err) == searchtext.ENOTFOUND {
				deps.Logger.Warn("skipped entry", "id", string(id), "err", err)
				return nil
			}
			if err != nil {
				return fmt.Errorf("entry %q: %w", id, err)
			}

			recs, err := deps.Transformer.EntryRecords(ctx, entry, filter, c.Size)
			if err != nil {
				return fmt.Errorf("entry %q: %w", id, err)
			}
			if err := deps.Records.WriteRecords(ctx, id, recs); err != nil {
				return fmt.Errorf("entry %q: %w", id, err)
			}

			entries.Add(1)
			records.Add(int64(len(recs)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", searchtext.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d entries (%d records)\n", entries.Load(), records.Load())
	return nil
}
