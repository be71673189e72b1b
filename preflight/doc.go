/*
Package preflight checks that the dependencies the backend is configured with
are reachable before (or while) it starts.

Probes:

  - database - pgx connect and ping of DATABASE_URL, without TLS
  - cache - go-redis PING of REDIS_URL
  - dns - A record lookup of the public backend host
  - storage - S3 HeadBucket against the MinIO endpoint, when the plugin is enabled

Probes without a configured target are skipped rather than failed. Run
executes them concurrently and collects a Report that can be printed as JSON.
*/
package preflight
