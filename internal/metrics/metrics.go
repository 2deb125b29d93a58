package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"myfind/internal/finder"
)

// Recorder holds the metrics of one run on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	WorkersTotal  *prometheus.CounterVec
	MatchesTotal  prometheus.Counter
	TargetsTotal  prometheus.Counter
	RunDuration   prometheus.Gauge
	LastRunFailed prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		WorkersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "myfind",
				Name:      "workers_total",
				Help:      "Search workers by final outcome",
			},
			[]string{"outcome"}, // "ok" or a failure kind
		),
		MatchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "myfind",
			Name:      "matches_total",
			Help:      "Files matched across all workers",
		}),
		TargetsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "myfind",
			Name:      "targets_total",
			Help:      "File names submitted for search",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "myfind",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run",
		}),
		LastRunFailed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "myfind",
			Name:      "last_run_failed_workers",
			Help:      "Workers that failed in the last run",
		}),
	}
	r.registry.MustRegister(r.WorkersTotal, r.MatchesTotal, r.TargetsTotal, r.RunDuration, r.LastRunFailed)
	return r
}

// ObserveReport records a finished run.
func (r *Recorder) ObserveReport(report *finder.Report, elapsed time.Duration) {
	failed := 0
	for _, entry := range report.Entries {
		r.TargetsTotal.Inc()
		r.MatchesTotal.Add(float64(len(entry.Outcome.Records)))
		if entry.Outcome.OK() {
			r.WorkersTotal.WithLabelValues("ok").Inc()
			continue
		}
		failed++
		r.WorkersTotal.WithLabelValues(outcomeLabel(entry.Outcome.Failure.Kind)).Inc()
	}
	r.RunDuration.Set(elapsed.Seconds())
	r.LastRunFailed.Set(float64(failed))
}

// WriteTextfile writes the registry in the node exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}

func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

func outcomeLabel(kind finder.FailureKind) string {
	switch kind {
	case finder.KindRootInvalid:
		return "root_invalid"
	case finder.KindSpawnFailed:
		return "spawn_failed"
	case finder.KindTransportTruncated:
		return "transport_truncated"
	case finder.KindWorkerCrashed:
		return "worker_crashed"
	default:
		return "search_failed"
	}
}
