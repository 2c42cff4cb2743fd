package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/homedash/homedash/src/internal/catalog"
	"github.com/homedash/homedash/src/internal/config"
)

// ListCommand prints the catalog.
type ListCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	query      string
	jsonOutput bool
}

// CreateListCommand creates a new list command.
func CreateListCommand() Runner {
	return &ListCommand{}
}

// Name returns the command name.
func (c *ListCommand) Name() string {
	return "list"
}

// Init parses flags and loads the configuration.
func (c *ListCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs = flag.NewFlagSet("list", flag.ContinueOnError)
	c.fs.StringVar(&c.query, "q", "", "Only show entries matching the query")
	c.fs.BoolVar(&c.jsonOutput, "json", false, "Print entries as JSON")

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// Run prints the matching entries ordered by title.
func (c *ListCommand) Run() error {
	fileStore, err := newFileStore(c.cfg)
	if err != nil {
		return err
	}
	store, err := openCatalog(c.cfg, fileStore)
	if err != nil {
		return err
	}

	entries := store.Search(c.query)
	out := c.ctx.stdout()

	if c.jsonOutput {
		if entries == nil {
			entries = []catalog.Entry{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	fmt.Fprintf(out, "%s (%d entries)\n\n", store.AppName(), len(entries))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tTYPE\tENABLED\tURL\tTARGET")
	for _, e := range entries {
		target := "-"
		if e.ProxyTarget != nil {
			target = e.ProxyTarget.Target
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\n", e.Title, e.Kind, e.Enabled, e.URL, target)
	}
	return tw.Flush()
}
