package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/homedash/homedash/src/internal/catalog"
	"github.com/homedash/homedash/src/internal/config"
	"github.com/homedash/homedash/src/internal/storage"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

type AppContext struct {
	ConfigPath string
	Verbose    bool

	// Stdout and Stdin default to the process streams.
	Stdout io.Writer
	Stdin  io.Reader
}

func (c *AppContext) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}

func (c *AppContext) stdin() io.Reader {
	if c.Stdin != nil {
		return c.Stdin
	}
	return os.Stdin
}

// loadAndValidateConfigOrFail loads configuration from file and validates it.
func loadAndValidateConfigOrFail(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}

	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %v", err)
	}

	return cfg, nil
}

// newFileStore opens the data file named by the configuration.
func newFileStore(cfg *config.Config) (*storage.FileStore, error) {
	fs, err := storage.NewFileStore(cfg.GetAbsDataFile())
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	return fs, nil
}

// openCatalog loads the catalog from the configured data file.
func openCatalog(cfg *config.Config, fs *storage.FileStore) (*catalog.Store, error) {
	store, err := catalog.NewStore(fs, cfg.GetAppName())
	if err != nil {
		return nil, err
	}
	return store, nil
}
