package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/searchtext"
	"github.com/fwojciec/searchtext/fs"
	"github.com/fwojciec/searchtext/goquery"
	"github.com/fwojciec/searchtext/html"
	"github.com/fwojciec/searchtext/ratelimit"
	stslog "github.com/fwojciec/searchtext/slog"
	"github.com/fwojciec/searchtext/sqlite"
	"github.com/fwojciec/searchtext/transform"
	"github.com/fwojciec/searchtext/xlsx"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Input for commands that read stdin.
	Stdin io.Reader

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
		Stdin:  os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("searchtext"),
		kong.Description("Extract search-indexable text from structured content."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'searchtext --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SEARCHTEXT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	contents := sqlite.NewContentStore(m.DB)
	deps.Entries = contents

	var store searchtext.ContentStore = contents
	if cli.RPS > 0 {
		store = ratelimit.NewContentStore(store, cli.RPS)
	}

	var sheets searchtext.SpreadsheetSource = xlsx.NewSource(cli.Sheets)
	var records searchtext.RecordWriter = fs.NewRecordWriter(cli.Index.Out)

	// Wrap services with logging decorators
	if cli.Verbose {
		store = stslog.NewLoggingContentStore(store, logger)
		sheets = stslog.NewLoggingSpreadsheetSource(sheets, logger)
		records = stslog.NewLoggingRecordWriter(records, logger)
	}

	deps.Store = store
	deps.Records = records
	deps.Transformer = &transform.Transformer{
		Store:        store,
		Normalizer:   html.NewNormalizer(),
		Spreadsheets: sheets,
		Images:       goquery.NewImageExtractor(),
		Report:       reportDiagnostic(logger),
	}

	return kongCtx.Run(deps)
}

// reportDiagnostic logs skipped items at warn level.
func reportDiagnostic(logger *slog.Logger) transform.DiagnosticFunc {
	return func(d transform.Diagnostic) {
		logger.Warn("skipped "+d.Item,
			"id", d.ID,
			"err", d.Err,
		)
	}
}

func defaultDBPath() string {
	if path := os.Getenv("SEARCHTEXT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "searchtext.db"
	}
	dir := filepath.Join(home, ".searchtext")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "searchtext.db")
}
