package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/homedash/homedash/src/internal/apache"
	"github.com/homedash/homedash/src/internal/config"
	"github.com/homedash/homedash/src/internal/importer"
	"github.com/homedash/homedash/src/internal/log"
)

// ImportCommand imports Apache VirtualHost configs into the data file.
type ImportCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	jsonOutput bool
	files      []string
}

// CreateImportCommand creates a new import command.
func CreateImportCommand() Runner {
	return &ImportCommand{}
}

// Name returns the command name.
func (c *ImportCommand) Name() string {
	return "import"
}

// Init parses the file arguments. "-" reads the config text from stdin.
func (c *ImportCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs = flag.NewFlagSet("import", flag.ContinueOnError)
	c.fs.BoolVar(&c.jsonOutput, "json", false, "Print the import report as JSON")
	c.fs.Usage = func() {
		fmt.Fprintf(c.fs.Output(), "Usage: import [-json] <file|-> [file...]\n")
		c.fs.PrintDefaults()
	}

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	c.files = c.fs.Args()
	if len(c.files) == 0 {
		c.fs.Usage()
		return fmt.Errorf("at least one file is required")
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// Run imports the files. Unreadable files and parse outcomes are part of the
// report; only configuration and data file failures make Run return an error.
func (c *ImportCommand) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return c.run(ctx)
}

func (c *ImportCommand) run(ctx context.Context) error {
	var (
		text    string
		sources []apache.Source
	)
	for _, name := range c.files {
		if name == "-" {
			content, err := io.ReadAll(c.ctx.stdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			text = string(content)
			continue
		}
		sources = append(sources, apache.FileSource(name))
	}

	fileStore, err := newFileStore(c.cfg)
	if err != nil {
		return err
	}

	// The server may be writing the same file; hold the lock from load to save.
	unlock, err := fileStore.Lock()
	if err != nil {
		return err
	}
	defer func() {
		if err := unlock(); err != nil {
			log.Warnf("Failed to release data file lock: %v", err)
		}
	}()

	store, err := openCatalog(c.cfg, fileStore)
	if err != nil {
		return err
	}

	imp := importer.New(store, importer.WithParallelReads(c.cfg.GetParallelReads()))
	report, err := imp.Import(ctx, text, sources)
	if err != nil {
		return err
	}

	return c.printReport(report)
}

func (c *ImportCommand) printReport(report importer.Report) error {
	out := c.ctx.stdout()

	if c.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(out, "[%s] %s\n", report.Severity, report.Message)
	fmt.Fprintf(out, "  blocks found: %d, candidates: %d, added: %d, skipped: %d\n",
		report.BlocksFound, report.Extracted, report.Accepted, report.Skipped)
	for _, e := range report.Added {
		fmt.Fprintf(out, "  + %s (%s -> %s)\n", e.Title, e.URL, e.ProxyTarget.Target)
	}
	for _, fe := range report.FileErrors {
		fmt.Fprintf(out, "  ! %s\n", fe.Message)
	}
	return nil
}
