package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ruteri/medusa-provisioning/common"
)

// Label values for the result label.
const (
	ResultHealthy        = "healthy"
	ResultUnhealthy      = "unhealthy"
	ResultError          = "error"
	ResultSuccess        = "success"
	ResultAuthError      = "auth_error"
	ResultProvisionError = "provision_error"
)

// Orchestrator metrics
var (
	HealthChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.PackageName,
			Name:      "health_checks_total",
			Help:      "Total number of backend health checks by result",
		},
		[]string{"result"},
	)

	OrchestratorState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: common.PackageName,
			Name:      "orchestrator_state",
			Help:      "Current startup orchestrator state (0 launching, 1 waiting healthy, 2 provisioning, 3 done, 4 failed)",
		},
	)
)

// Provisioner metrics
var (
	KeyRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.PackageName,
			Name:      "key_requests_total",
			Help:      "Total number of publishable key provisioning attempts by result",
		},
		[]string{"result"},
	)
)

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
