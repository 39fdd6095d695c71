package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lakshaymaurya-felt/winsweep/internal/clean"
)

const namespace = "winsweep"

// Run holds the gauges describing one maintenance run. Each run gets its
// own registry so the textfile contains nothing else.
type Run struct {
	registry       *prometheus.Registry
	itemsDeleted   prometheus.Gauge
	bytesReclaimed prometheus.Gauge
	errors         prometheus.Gauge
	duration       prometheus.Gauge
	dryRun         prometheus.Gauge
	lastRun        prometheus.Gauge
	prunedBytes    *prometheus.GaugeVec
	binBytes       *prometheus.GaugeVec
	binItems       *prometheus.GaugeVec
}

// NewRun creates and registers the run gauges.
func NewRun() *Run {
	r := &Run{
		registry: prometheus.NewRegistry(),
		itemsDeleted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items_deleted",
			Help:      "Files and folders deleted (or previewed in dry-run) by the last run",
		}),
		bytesReclaimed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bytes_reclaimed",
			Help:      "Bytes reclaimed by the last run",
		}),
		errors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "errors",
			Help:      "Errors reported by the last run",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "Wall time of the last run",
		}),
		dryRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dry_run",
			Help:      "1 if the last run only previewed deletions",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
		prunedBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "docker_reclaimed_bytes",
			Help:      "Bytes reclaimed by container-store pruning, by object kind",
		}, []string{"kind"}),
		binBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "recycle_bin_bytes",
			Help:      "Recycle Bin size before and after the last run",
		}, []string{"sample"}),
		binItems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "recycle_bin_items",
			Help:      "Recycle Bin item count before and after the last run",
		}, []string{"sample"}),
	}

	r.registry.MustRegister(
		r.itemsDeleted,
		r.bytesReclaimed,
		r.errors,
		r.duration,
		r.dryRun,
		r.lastRun,
		r.prunedBytes,
		r.binBytes,
		r.binItems,
	)
	return r
}

// Summary is what a finished run reports.
type Summary struct {
	Items    int64
	Bytes    int64
	Errors   int64
	Duration time.Duration
	DryRun   bool
	Finished time.Time
	Pruned   map[string]uint64
	// RecycleBin is left out of the textfile when nil.
	RecycleBin *clean.BinSample
}

// Record sets every gauge from s.
func (r *Run) Record(s Summary) {
	r.itemsDeleted.Set(float64(s.Items))
	r.bytesReclaimed.Set(float64(s.Bytes))
	r.errors.Set(float64(s.Errors))
	r.duration.Set(s.Duration.Seconds())
	if s.DryRun {
		r.dryRun.Set(1)
	} else {
		r.dryRun.Set(0)
	}
	r.lastRun.Set(float64(s.Finished.Unix()))
	for kind, n := range s.Pruned {
		r.prunedBytes.WithLabelValues(kind).Set(float64(n))
	}
	if b := s.RecycleBin; b != nil {
		r.binBytes.WithLabelValues("before").Set(float64(b.Before.Size))
		r.binBytes.WithLabelValues("after").Set(float64(b.After.Size))
		r.binItems.WithLabelValues("before").Set(float64(b.Before.Items))
		r.binItems.WithLabelValues("after").Set(float64(b.After.Items))
	}
}

// Gatherer exposes the registry, e.g. for tests.
func (r *Run) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the gauges in the node_exporter textfile format.
// The file is replaced atomically.
func (r *Run) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
