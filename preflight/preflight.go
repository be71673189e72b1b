package preflight

import (
	"context"
	"log/slog"
	"time"

	"github.com/ruteri/medusa-provisioning/config"
	"golang.org/x/sync/errgroup"
)

// DefaultResolver is the local stub resolver queried by the DNS probe.
const DefaultResolver = "127.0.0.53:53"

// DefaultTimeout bounds each probe.
const DefaultTimeout = 5 * time.Second

// Probe checks that one dependency of the backend is reachable.
type Probe interface {
	Name() string
	// Configured is false when the dependency has no target; such probes
	// are reported as skipped.
	Configured() bool
	Check(ctx context.Context) error
}

// ProbeResult is the outcome of one probe.
type ProbeResult struct {
	Name      string `json:"name"`
	OK        bool   `json:"ok"`
	Skipped   bool   `json:"skipped,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// Report aggregates probe results. OK is false if any configured probe failed.
type Report struct {
	OK      bool          `json:"ok"`
	Results []ProbeResult `json:"results"`
}

// Failed returns the results of the probes that failed.
func (r *Report) Failed() []ProbeResult {
	var failed []ProbeResult
	for _, res := range r.Results {
		if !res.OK {
			failed = append(failed, res)
		}
	}
	return failed
}

// Probes builds the probe set for a startup configuration. backendURL is
// the public backend URL whose host is resolved by the DNS probe.
func Probes(cfg *config.StartupConfig, backendURL, resolver string) []Probe {
	minio, _ := cfg.Minio()
	return []Probe{
		NewDatabaseProbe(cfg.ProjectConfig.Database.URL),
		NewCacheProbe(cfg.ProjectConfig.RedisURL),
		NewDNSProbe(backendURL, resolver),
		NewStorageProbe(minio),
	}
}

// Run executes all probes concurrently, each bounded by timeout. A failing
// probe does not cancel the others.
func Run(ctx context.Context, probes []Probe, timeout time.Duration, log *slog.Logger) *Report {
	results := make([]ProbeResult, len(probes))

	var g errgroup.Group
	for i, p := range probes {
		results[i].Name = p.Name()
		if !p.Configured() {
			results[i].OK = true
			results[i].Skipped = true
			log.Debug("Skipping unconfigured probe", "probe", p.Name())
			continue
		}

		i, p := i, p
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			start := time.Now()
			err := p.Check(pctx)
			results[i].LatencyMs = time.Since(start).Milliseconds()
			if err != nil {
				results[i].Error = err.Error()
				log.Warn("Preflight probe failed", "probe", p.Name(), "err", err)
				return nil
			}
			results[i].OK = true
			log.Info("Preflight probe passed", "probe", p.Name(), "latencyMs", results[i].LatencyMs)
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{OK: true, Results: results}
	for _, res := range results {
		if !res.OK {
			report.OK = false
		}
	}
	return report
}
