// Package main (cmd/startup-with-key) starts the backend and provisions a
// publishable key once it is up.
//
// The backend command (BACKEND_COMMAND, default "pnpm start") runs as a child
// process with the inherited environment and standard I/O. After a grace
// period the /health endpoint is polled; on the first 200 and a short settle
// delay a publishable key is created and printed. Failures in that sequence
// print manual recovery steps and leave the backend running.
//
// The process exits with the backend's exit code. SIGINT and SIGTERM are
// forwarded to the backend.
//
// With STATUS_ADDR set, the startup progress is served on /status, /readyz
// and /metrics. With --preflight, database, cache, DNS and storage are probed
// before the backend is started; failures are logged but do not block startup.
package main
