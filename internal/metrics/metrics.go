package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// SimulationRuns counts simulation runs by outcome
	SimulationRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "simulation_runs_total", Help: "Simulation runs by outcome."},
		[]string{"outcome"},
	)
	// SimulationDuration tracks how long successful runs take in seconds
	SimulationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "simulation_run_duration_seconds", Help: "Simulation run duration in seconds.", Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10}},
	)
	// SimulationOrders counts orders handled by simulations, assigned or dropped
	SimulationOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "simulation_orders_total", Help: "Orders processed by simulations by result."},
		[]string{"result"},
	)
	// IdempotentReplays counts mutating requests answered from a stored response
	IdempotentReplays = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "idempotent_replays_total", Help: "Requests answered from a stored idempotent response."},
		[]string{"path"},
	)
	// SimulationInProgress is 1 while a simulation is running in this process
	SimulationInProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "simulation_in_progress", Help: "Whether a simulation is currently running."},
	)
)

// Outcome labels for SimulationRuns.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeFailed   = "failed"
)

// RegisterDefault registers collectors to the default registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(SimulationRuns)
		Registry.MustRegister(SimulationDuration)
		Registry.MustRegister(SimulationOrders)
		Registry.MustRegister(SimulationInProgress)
		Registry.MustRegister(IdempotentReplays)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
