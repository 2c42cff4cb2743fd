// Package config handles configuration file parsing and validation for homedash.
//
// The configuration is a TOML file. Every key is optional except the data
// file location, and a missing file yields the defaults. Sections:
//
//   - [general]: dashboard name, data file, API bind address, UI directory
//     and the private-subnets-only access rule
//   - [import]: request size limit and parallel file reads for imports
//   - [dns]: server and timeout for host resolution checks
//   - [metrics]: Prometheus endpoint
//
// # Example Usage
//
//	cfg, err := config.LoadConfig("/etc/homedash/homedash.conf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.ValidateConfig(); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.GetAbsDataFile())
//
// Relative paths (data_file, ui_path) are resolved against the directory of the
// configuration file.
package config
