// Package server provides HTTP server setup and initialization.
//
// This package assembles the service:
//   - HTTP routing with Gin
//   - Middleware stack (request IDs, CORS, rate limiting, recovery, metrics)
//   - Filesystem operations rooted at the storage directory
//   - Structured file store for YAML, JSON, and TOML
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.New(cfg, logger)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
