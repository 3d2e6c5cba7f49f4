package metric

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "gridboot"

// Registry holds all boot metrics.
type Registry struct {
	reg *prometheus.Registry

	bootDuration    prometheus.Gauge
	bootState       *prometheus.GaugeVec
	bootExitCode    prometheus.Gauge
	identityOutcome *prometheus.CounterVec
	installDuration prometheus.Histogram
	launchTimestamp prometheus.Gauge
}

// NewRegistry creates a registry with every boot metric registered.
func NewRegistry() *Registry {
	r := &Registry{reg: prometheus.NewRegistry()}

	r.bootDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "boot",
		Name:      "duration_seconds",
		Help:      "Wall time from process start to handoff or failure",
	})

	r.bootState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "boot",
		Name:      "state",
		Help:      "Last boot state reached (1 for the current state, 0 otherwise)",
	}, []string{"state"})

	r.bootExitCode = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "boot",
		Name:      "exit_code",
		Help:      "Exit code the boot sequence resolved to (0 on handoff)",
	})

	r.identityOutcome = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "identity",
		Name:      "resolutions_total",
		Help:      "Identity resolutions by outcome (loaded, created, failed)",
	}, []string{"outcome"})

	r.installDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "install",
		Name:      "duration_seconds",
		Help:      "Duration of the development dependency install",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	r.launchTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "launch",
		Name:      "timestamp_seconds",
		Help:      "Unix timestamp of the server handoff",
	})

	r.reg.MustRegister(
		r.bootDuration,
		r.bootState,
		r.bootExitCode,
		r.identityOutcome,
		r.installDuration,
		r.launchTimestamp,
		NewBuildCollector(),
		collectors.NewGoCollector(),
	)

	return r
}

// ObserveState marks state as the current boot state.
func (r *Registry) ObserveState(state string) {
	r.bootState.Reset()
	r.bootState.WithLabelValues(state).Set(1)
}

// ObserveIdentity counts one identity resolution.
func (r *Registry) ObserveIdentity(outcome string) {
	r.identityOutcome.WithLabelValues(outcome).Inc()
}

// ObserveInstall records an install duration.
func (r *Registry) ObserveInstall(d time.Duration) {
	r.installDuration.Observe(d.Seconds())
}

// ObserveLaunch records the handoff time.
func (r *Registry) ObserveLaunch(at time.Time) {
	r.launchTimestamp.Set(float64(at.UnixNano()) / 1e9)
}

// ObserveFinish records total boot duration and the resolved exit code.
func (r *Registry) ObserveFinish(elapsed time.Duration, exitCode int) {
	r.bootDuration.Set(elapsed.Seconds())
	r.bootExitCode.Set(float64(exitCode))
}

// ErrNoPath is returned by WriteFile when no textfile path is configured.
var ErrNoPath = errors.New("metric: textfile path is empty")

// WriteFile atomically writes the registry in text exposition format.
func (r *Registry) WriteFile(path string) error {
	if path == "" {
		return ErrNoPath
	}
	return prometheus.WriteToTextfile(path, r.reg)
}
