// Package main is the entry point for the fskit filesystem service.
//
// The server exposes directory, file, and structured-file operations
// over a REST API rooted at a configured storage directory.
//
// Configuration:
//   - Environment variables with the FSKIT_ prefix (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	./server -port 8090 -root /var/lib/fskit
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
