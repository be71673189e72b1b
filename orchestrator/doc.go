/*
Package orchestrator supervises the backend process and provisions a
publishable key once the backend reports healthy.

The startup sequence moves through these states:

	launching -> waiting_healthy -> provisioning -> done
	                    |                 |
	                    +----> failed <---+

After the backend is spawned, a task scheduled on the clock fires once the
grace period has passed and runs the health poll and provisioning. A failure
only ends the sequence; the backend keeps running and manual recovery steps
are printed. The backend's exit always ends Run with the backend's exit code.

The clock is injectable (github.com/benbjohnson/clock) so tests drive the
grace period, poll interval and settle delay without sleeping.
*/
package orchestrator
