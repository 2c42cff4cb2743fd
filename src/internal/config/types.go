package config

import (
	"path/filepath"
	"time"

	"github.com/homedash/homedash/src/internal/catalog"
)

const (
	DefaultDataFile       = "db.json"
	DefaultAPIBindAddress = "0.0.0.0:3001"
	DefaultMaxUploadMB    = 10
	DefaultParallelReads  = 4
	DefaultDNSTimeout     = 3 * time.Second
	DefaultMetricsPath    = "/metrics"
)

type Config struct {
	// General holds general configuration.
	General *GeneralConfig `toml:"general" json:"general"`
	// Import holds limits for configuration imports.
	Import *ImportConfig `toml:"import" json:"import,omitempty"`
	// DNS holds settings for host resolution checks.
	DNS *DNSConfig `toml:"dns" json:"dns,omitempty"`
	// Metrics holds Prometheus endpoint settings.
	Metrics *MetricsConfig `toml:"metrics" json:"metrics,omitempty"`

	_absConfigFilePath string
}

type GeneralConfig struct {
	// AppName is the dashboard name used until one is saved in the data file (default: "Service Dashboard").
	AppName string `toml:"app_name" json:"app_name"`
	// DataFile is the catalog document, JSON or YAML by extension. Relative paths are resolved against the config directory.
	DataFile string `toml:"data_file" json:"data_file" validate:"required,data_file"`
	// APIBindAddress is the address the API server listens on (default: 0.0.0.0:3001).
	APIBindAddress string `toml:"api_bind_address" json:"api_bind_address" validate:"hostport_or_empty"`
	// UIPath is a directory with the built dashboard UI. Empty disables static file serving.
	UIPath string `toml:"ui_path" json:"ui_path,omitempty"`
	// PrivateSubnetsOnly rejects API requests from public addresses (default: true).
	PrivateSubnetsOnly *bool `toml:"private_subnets_only" json:"private_subnets_only,omitempty"`
}

type ImportConfig struct {
	// MaxUploadMB limits the size of an import request in megabytes (default: 10).
	MaxUploadMB int `toml:"max_upload_mb" json:"max_upload_mb" validate:"omitempty,min=1,max=512"`
	// ParallelReads is the number of uploaded files read at once (default: 4).
	ParallelReads int `toml:"parallel_reads" json:"parallel_reads" validate:"omitempty,min=1,max=64"`
}

type DNSConfig struct {
	// Server is the DNS server used to check entry hosts, as ip or ip:port. Empty means the first nameserver of /etc/resolv.conf.
	Server string `toml:"server" json:"server" validate:"dns_server"`
	// TimeoutSeconds is the per-query timeout (default: 3).
	TimeoutSeconds int `toml:"timeout_seconds" json:"timeout_seconds" validate:"min=0,max=60"`
}

type MetricsConfig struct {
	// Enable exposes Prometheus metrics on the API server (default: true).
	Enable *bool `toml:"enable" json:"enable,omitempty"`
	// Path is the metrics endpoint path (default: /metrics).
	Path string `toml:"path" json:"path" validate:"omitempty,startswith=/"`
}

// DefaultConfig returns the configuration used when no config file exists.
// The data file lives next to configPath.
func DefaultConfig(configPath string) *Config {
	return &Config{
		General: &GeneralConfig{
			AppName:        catalog.DefaultAppName,
			DataFile:       DefaultDataFile,
			APIBindAddress: DefaultAPIBindAddress,
		},
		Import: &ImportConfig{
			MaxUploadMB:   DefaultMaxUploadMB,
			ParallelReads: DefaultParallelReads,
		},
		DNS:                &DNSConfig{},
		Metrics:            &MetricsConfig{Path: DefaultMetricsPath},
		_absConfigFilePath: configPath,
	}
}

func (c *Config) GetConfigDir() string {
	return filepath.Dir(c._absConfigFilePath)
}

func (c *Config) GetConfigPath() string {
	return c._absConfigFilePath
}

func (c *Config) GetAppName() string {
	if c.General == nil || c.General.AppName == "" {
		return catalog.DefaultAppName
	}
	return c.General.AppName
}

func (c *Config) GetAbsDataFile() string {
	dataFile := DefaultDataFile
	if c.General != nil && c.General.DataFile != "" {
		dataFile = c.General.DataFile
	}
	return absolutePath(dataFile, c.GetConfigDir())
}

func (c *Config) GetAPIBindAddress() string {
	if c.General == nil || c.General.APIBindAddress == "" {
		return DefaultAPIBindAddress
	}
	return c.General.APIBindAddress
}

// GetAbsUIPath returns the UI directory, or "" when static serving is disabled.
func (c *Config) GetAbsUIPath() string {
	if c.General == nil || c.General.UIPath == "" {
		return ""
	}
	return absolutePath(c.General.UIPath, c.GetConfigDir())
}

func (c *Config) IsPrivateSubnetsOnly() bool {
	if c.General == nil || c.General.PrivateSubnetsOnly == nil {
		return true
	}
	return *c.General.PrivateSubnetsOnly
}

func (c *Config) GetMaxUploadBytes() int64 {
	mb := DefaultMaxUploadMB
	if c.Import != nil && c.Import.MaxUploadMB > 0 {
		mb = c.Import.MaxUploadMB
	}
	return int64(mb) << 20
}

func (c *Config) GetParallelReads() int {
	if c.Import == nil || c.Import.ParallelReads <= 0 {
		return DefaultParallelReads
	}
	return c.Import.ParallelReads
}

// GetDNSServer returns the configured DNS server, or "" for the system resolver.
func (c *Config) GetDNSServer() string {
	if c.DNS == nil {
		return ""
	}
	return c.DNS.Server
}

func (c *Config) GetDNSTimeout() time.Duration {
	if c.DNS == nil || c.DNS.TimeoutSeconds <= 0 {
		return DefaultDNSTimeout
	}
	return time.Duration(c.DNS.TimeoutSeconds) * time.Second
}

func (c *Config) IsMetricsEnabled() bool {
	if c.Metrics == nil || c.Metrics.Enable == nil {
		return true
	}
	return *c.Metrics.Enable
}

func (c *Config) GetMetricsPath() string {
	if c.Metrics == nil || c.Metrics.Path == "" {
		return DefaultMetricsPath
	}
	return c.Metrics.Path
}

// absolutePath returns path if it is absolute, otherwise joins it with baseDir.
func absolutePath(path, baseDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Clean(filepath.Join(baseDir, path))
}
