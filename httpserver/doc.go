// Package httpserver serves the optional status API of the startup
// orchestrator.
//
// Routes:
//
//	GET /status   current state, health attempts and key id as JSON
//	GET /livez    always 200 while the process runs
//	GET /readyz   200 once the publishable key was created, 503 before
//	GET /metrics  Prometheus metrics
//
// The server is only started when a listen address is configured, so it
// never competes with the backend for its port.
package httpserver
