// Package main (cmd/medusa-config) builds the backend startup configuration
// from the environment.
//
// The env file for NODE_ENV (.env.production, .env.staging, .env.test, or
// .env otherwise) is loaded first; variables already set in the process
// environment win.
//
// Commands:
//
//	render  - print the configuration document as JSON or YAML (default)
//	check   - probe database, cache, DNS and storage; exits 1 if any probe fails
//
// The database always runs without TLS (ssl false, sslmode "disable"). The
// MinIO file plugin is only emitted when MINIO_PLUGIN_ENABLED is true.
package main
