package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/searchtext"
	"github.com/fwojciec/searchtext/transform"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *slog.Logger
	Store       searchtext.ContentStore
	Entries     searchtext.EntryService
	Transformer *transform.Transformer
	Records     searchtext.RecordWriter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool    `short:"v" help:"Log every store lookup"`
	RPS     float64 `name:"rps" default:"0" help:"Maximum store lookups per second (0 for unlimited)"`
	Sheets  string  `default:"." env:"SEARCHTEXT_SHEETS" help:"Directory spreadsheet assets are resolved against"`

	Import ImportCmd `cmd:"" help:"Import entries from a JSON content dump"`
	Entry  EntryCmd  `cmd:"" help:"Print the search text of an entry"`
	Matrix MatrixCmd `cmd:"" help:"Print the search text of a matrix field"`
	Chunk  ChunkCmd  `cmd:"" help:"Normalize and chunk text read from stdin"`
	Sheet  SheetCmd  `cmd:"" help:"Print the search text of a spreadsheet asset"`
	Index  IndexCmd  `cmd:"" help:"Write search records for entries"`
	Titles TitlesCmd `cmd:"" help:"Print the titles of related entries in a field"`
	Images ImagesCmd `cmd:"" help:"Print the image URLs in a field"`
}

// FilterFlags selects which handles contribute text.
type FilterFlags struct {
	Include []string `short:"i" name:"include" help:"Handle to include (repeatable)"`
	All     bool     `short:"a" help:"Include every handle"`
}

// Filter converts the flags to an include filter. Without --include or
// --all nothing is included.
func (f FilterFlags) Filter() searchtext.IncludeFilter {
	if f.All {
		return searchtext.All()
	}
	return searchtext.Only(f.Include...)
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	File string `arg:"" help:"Content dump path, or - for stdin"`
}

// EntryCmd is the "entry" subcommand.
type EntryCmd struct {
	ID string `arg:"" help:"Entry ID"`
	FilterFlags
}

// MatrixCmd is the "matrix" subcommand. The filter selects block types.
type MatrixCmd struct {
	ID     string `arg:"" help:"Entry ID"`
	Handle string `arg:"" help:"Matrix field handle"`
	FilterFlags
}

// ChunkCmd is the "chunk" subcommand.
type ChunkCmd struct {
	Size int `short:"s" default:"3500" help:"Maximum chunk size in characters"`
}

// SheetCmd is the "sheet" subcommand.
type SheetCmd struct {
	Asset string `arg:"" help:"Spreadsheet asset path"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	IDs         []string `arg:"" optional:"" help:"Entry IDs (all entries when omitted)"`
	Out         string   `short:"o" default:"records" help:"Directory for record files"`
	Size        int      `short:"s" default:"3500" help:"Maximum chunk size in characters"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent entry limit"`
	FilterFlags
}

// TitlesCmd is the "titles" subcommand.
type TitlesCmd struct {
	ID     string `arg:"" help:"Entry ID"`
	Handle string `arg:"" help:"Relation field handle"`
}

// ImagesCmd is the "images" subcommand.
type ImagesCmd struct {
	ID     string `arg:"" help:"Entry ID"`
	Handle string `arg:"" help:"Asset or rich text field handle"`
	First  bool   `help:"Print only the first image"`
}
