package commands

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/homedash/homedash/src/internal/api"
	"github.com/homedash/homedash/src/internal/config"
	"github.com/homedash/homedash/src/internal/importer"
	"github.com/homedash/homedash/src/internal/log"
	"github.com/homedash/homedash/src/internal/metrics"
	"github.com/homedash/homedash/src/internal/resolver"
)

const shutdownTimeout = 30 * time.Second

// ServerCommand implements the serve command for running the HTTP API server.
type ServerCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	// Command-specific flags
	bindAddr string
	uiPath   string

	handler http.Handler
}

// CreateServerCommand creates a new serve command.
func CreateServerCommand() Runner {
	return &ServerCommand{}
}

// Name returns the command name.
func (c *ServerCommand) Name() string {
	return "serve"
}

// Init loads the configuration and the catalog and builds the router.
func (c *ServerCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs = flag.NewFlagSet("serve", flag.ContinueOnError)

	c.fs.StringVar(&c.bindAddr, "bind", "", "Address to bind the HTTP server (overrides api_bind_address)")
	c.fs.StringVar(&c.uiPath, "ui", "", "Directory with the built UI (overrides ui_path)")

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	if c.bindAddr == "" {
		c.bindAddr = cfg.GetAPIBindAddress()
	}
	if c.uiPath == "" {
		c.uiPath = cfg.GetAbsUIPath()
	}

	fileStore, err := newFileStore(cfg)
	if err != nil {
		return err
	}
	store, err := openCatalog(cfg, fileStore)
	if err != nil {
		return err
	}
	log.Infof("Loaded %d entries from %s", store.Len(), fileStore.Path())

	res, err := resolver.New(cfg.GetDNSServer(), cfg.GetDNSTimeout())
	if err != nil {
		return fmt.Errorf("failed to create DNS resolver: %w", err)
	}

	opts := api.RouterOptions{
		Store:              store,
		Resolver:           res,
		MaxUploadBytes:     cfg.GetMaxUploadBytes(),
		PrivateSubnetsOnly: cfg.IsPrivateSubnetsOnly(),
		UIPath:             c.uiPath,
	}

	importOpts := []importer.Option{importer.WithParallelReads(cfg.GetParallelReads())}
	if cfg.IsMetricsEnabled() {
		collector := metrics.NewCollector()
		collector.ObserveCatalog(store.List())
		opts.Metrics = collector
		opts.MetricsPath = cfg.GetMetricsPath()
		importOpts = append(importOpts, importer.WithRecorder(collector))
	}
	opts.Importer = importer.New(store, importOpts...)

	c.handler = api.NewRouter(opts)
	return nil
}

// Run serves the API until SIGINT or SIGTERM.
func (c *ServerCommand) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return c.serve(ctx)
}

func (c *ServerCommand) serve(ctx context.Context) error {
	log.Infof("Starting homedash API server on %s", c.bindAddr)
	log.Infof("Configuration loaded from: %s", c.cfg.GetConfigPath())
	if c.cfg.IsPrivateSubnetsOnly() {
		log.Infof("Access restricted to private subnets only (10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16, 127.0.0.0/8, fc00::/7, fe80::/10, ::1)")
	}
	if c.uiPath != "" {
		log.Infof("Serving UI from %s", c.uiPath)
	}

	supervisor := NewSupervisor(SupervisorConfig{Name: "api-server", MaxRestarts: 5}, func(ctx context.Context) error {
		server := api.NewServer(c.bindAddr, c.handler)

		serverErrors := make(chan error, 1)
		go func() { serverErrors <- server.Start() }()

		select {
		case err := <-serverErrors:
			if err == nil {
				return fmt.Errorf("server stopped unexpectedly")
			}
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := server.Stop(shutdownCtx); err != nil {
				log.Errorf("Error during server shutdown: %v", err)
			}
			<-serverErrors
			log.Infof("Server stopped gracefully")
			return nil
		}
	})

	return supervisor.Run(ctx)
}
