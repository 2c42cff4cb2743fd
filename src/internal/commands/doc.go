// Package commands implements CLI command handlers for homedash.
//
// Each command implements the Runner interface:
//   - Init(): Parse arguments and load configuration
//   - Run(): Execute the command
//   - Name(): Return command name for routing
//
// # Available Commands
//
//   - serve: Run the HTTP API (and UI) until interrupted
//   - import: Import Apache VirtualHost files into the data file
//   - render: Print a VirtualHost config for a reverse-proxied service
//   - list: Print the catalog
//
// # Example Usage
//
//	cmd := commands.CreateImportCommand()
//	ctx := &commands.AppContext{ConfigPath: "/etc/homedash/homedash.conf"}
//	if err := cmd.Init([]string{"/etc/apache2/sites-enabled/app.conf"}, ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := cmd.Run(); err != nil {
//	    log.Fatal(err)
//	}
package commands
