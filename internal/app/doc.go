// Package app provides application initialization and lifecycle
// management for the invoice export service. It wires configuration,
// the SQLite invoice store, the export and invoice services, and the
// HTTP router, and handles graceful shutdown.
//
// # Lifecycle
//
//	cfg, _ := config.Load()
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    // handle initialization error
//	}
//	if err := application.Run(); err != nil {
//	    // handle runtime error
//	}
//
// Run blocks until SIGINT or SIGTERM, then shuts the server down
// within the configured shutdown timeout.
package app
