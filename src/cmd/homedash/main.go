package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/homedash/homedash/src/internal/api"
	"github.com/homedash/homedash/src/internal/commands"
	"github.com/homedash/homedash/src/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	ctx := &commands.AppContext{}

	flag.StringVar(&ctx.ConfigPath, "config", "/etc/homedash/homedash.conf", "Path to configuration file")
	flag.BoolVar(&ctx.Verbose, "verbose", false, "Enable debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Personal service dashboard\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  serve                   Run the API server (and the UI, if ui_path is set)\n")
		fmt.Fprintf(os.Stderr, "  import <file|->...      Import services from Apache VirtualHost configs\n")
		fmt.Fprintf(os.Stderr, "  render                  Print a VirtualHost config for a reverse proxy\n")
		fmt.Fprintf(os.Stderr, "  list                    Print the dashboard entries\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if ctx.Verbose {
		log.SetVerbose(true)
	}
	defer log.Sync()

	api.Version, api.Commit, api.Date = version, commit, date

	cmds := []commands.Runner{
		commands.CreateServerCommand(),
		commands.CreateImportCommand(),
		commands.CreateRenderCommand(),
		commands.CreateListCommand(),
	}

	args := flag.Args()

	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	subcommand := args[0]
	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			if err := cmd.Init(args[1:], ctx); err != nil {
				log.Fatalf("Failed to initialize command: %v", err)
			}

			if err := cmd.Run(); err != nil {
				log.Fatalf("Failed to run command: %v", err)
			}

			return
		}
	}

	log.Fatalf("Unknown subcommand: %s", subcommand)
}
