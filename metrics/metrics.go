package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vshn/sitefs/attrs"
	"github.com/vshn/sitefs/querystring"
)

const (
	namespace = "sitefs"

	subsystemAttrs       = "attrs"
	subsystemQueryString = "querystring"
)

// Recorder collects the statistics of a single run.
// The statistics only leave the process through WriteTextfile.
type Recorder struct {
	registry *prometheus.Registry

	RecordedPaths    prometheus.Gauge
	RestoredPaths    prometheus.Gauge
	SkippedPaths     prometheus.Counter
	AttributeUpdates *prometheus.CounterVec
	QueryStringFiles *prometheus.CounterVec
	LastRunTimestamp *prometheus.GaugeVec
}

// NewRecorder returns a Recorder with all its metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		RecordedPaths: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemAttrs,
			Name:      "recorded_paths",
			Help:      "How many paths the last saved snapshot contains",
		}),
		RestoredPaths: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemAttrs,
			Name:      "restored_paths",
			Help:      "How many recorded paths the last restore looked at",
		}),
		SkippedPaths: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemAttrs,
			Name:      "skipped_paths_total",
			Help:      "How many recorded paths did not exist anymore during restore",
		}),
		AttributeUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemAttrs,
			Name:      "updates_total",
			Help:      "How many attributes were corrected during restore",
		}, []string{"attribute"}),
		QueryStringFiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemQueryString,
			Name:      "files_total",
			Help:      "How many files with a query string in their name were handled",
		}, []string{"action"}),
		LastRunTimestamp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Timestamp when the last run of a command finished",
		}, []string{"command"}),
	}

	r.registry.MustRegister(
		r.RecordedPaths,
		r.RestoredPaths,
		r.SkippedPaths,
		r.AttributeUpdates,
		r.QueryStringFiles,
		r.LastRunTimestamp,
	)
	return r
}

// ObserveSnapshot records the size of a saved snapshot.
func (r *Recorder) ObserveSnapshot(snap attrs.Snapshot) {
	r.RecordedPaths.Set(float64(len(snap)))
}

// ObserveRestore records the outcome of a restore.
func (r *Recorder) ObserveRestore(summary attrs.Summary) {
	r.RestoredPaths.Set(float64(summary.Paths))
	r.SkippedPaths.Add(float64(summary.Skipped))
	for _, attribute := range []attrs.Attribute{attrs.AttributeOwnership, attrs.AttributePermissions, attrs.AttributeMtime} {
		r.AttributeUpdates.WithLabelValues(string(attribute)).Add(float64(summary.Updates[attribute]))
	}
}

// ObserveClean records the outcome of a query string cleanup.
func (r *Recorder) ObserveClean(result querystring.Result) {
	r.QueryStringFiles.WithLabelValues("renamed").Add(float64(result.Renamed))
	r.QueryStringFiles.WithLabelValues("removed").Add(float64(result.Removed))
	r.QueryStringFiles.WithLabelValues("skipped").Add(float64(result.Skipped))
}

// Finished marks the given command as done now.
func (r *Recorder) Finished(command string) {
	r.LastRunTimestamp.WithLabelValues(command).SetToCurrentTime()
}

// WriteTextfile writes all metrics in the text exposition format to path,
// to be picked up by the node exporter's textfile collector.
// Nothing is written if path is empty.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
