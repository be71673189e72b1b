package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ruteri/medusa-provisioning/interfaces"
	"github.com/ruteri/medusa-provisioning/metrics"
)

// HealthPoller probes the backend on a fixed interval until it is healthy
// or the attempt budget is spent.
type HealthPoller struct {
	checker     interfaces.HealthChecker
	clock       clock.Clock
	interval    time.Duration
	maxAttempts int
	log         *slog.Logger

	// OnAttempt, if set, is called after every probe with the attempt number.
	OnAttempt func(attempt int)
}

// NewHealthPoller creates a poller. A nil clk selects the wall clock.
func NewHealthPoller(checker interfaces.HealthChecker, clk clock.Clock, interval time.Duration, maxAttempts int, log *slog.Logger) *HealthPoller {
	if clk == nil {
		clk = clock.New()
	}
	return &HealthPoller{
		checker:     checker,
		clock:       clk,
		interval:    interval,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// WaitHealthy probes until the first healthy answer and returns the number of
// attempts made. After maxAttempts failed probes it returns an error wrapping
// interfaces.ErrHealthTimeout. Probe errors count as failed attempts.
func (p *HealthPoller) WaitHealthy(ctx context.Context) (int, error) {
	p.log.Info("Waiting for backend to be healthy", "interval", p.interval, "maxAttempts", p.maxAttempts)

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		healthy, err := p.checker.Check(ctx)
		if p.OnAttempt != nil {
			p.OnAttempt(attempt)
		}

		switch {
		case err != nil:
			if ctx.Err() != nil {
				return attempt, ctx.Err()
			}
			metrics.HealthChecks.WithLabelValues(metrics.ResultError).Inc()
			p.log.Debug("Health check failed", "attempt", attempt, "err", err)
		case healthy:
			metrics.HealthChecks.WithLabelValues(metrics.ResultHealthy).Inc()
			p.log.Info("Backend is healthy", "attempt", attempt)
			return attempt, nil
		default:
			metrics.HealthChecks.WithLabelValues(metrics.ResultUnhealthy).Inc()
		}

		p.log.Info("Waiting for backend", "attempt", attempt, "maxAttempts", p.maxAttempts)
		// No sleep after the last attempt: maxAttempts probes span maxAttempts-1 intervals.
		if attempt == p.maxAttempts {
			break
		}
		if err := sleep(ctx, p.clock, p.interval); err != nil {
			return attempt, err
		}
	}

	return p.maxAttempts, fmt.Errorf("%w: no healthy response after %d attempts", interfaces.ErrHealthTimeout, p.maxAttempts)
}

// sleep waits for d on clk or until ctx is done.
func sleep(ctx context.Context, clk clock.Clock, d time.Duration) error {
	t := clk.Timer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
