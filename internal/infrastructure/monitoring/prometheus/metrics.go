package prometheus

import (
	"time"
)

// PredictionMetrics holds the metric families of a prediction run.  A nil
// *PredictionMetrics is valid and records nothing.
type PredictionMetrics struct {
	MoleculesTotal    CounterVec
	ScoringDuration   HistogramVec
	HitsTotal         CounterVec
	TargetsPerQuery   HistogramVec
	ActiveWorkers     GaugeVec
	CacheLookups      CounterVec
	PublishTotal      CounterVec
	StageDuration     HistogramVec
	DatabaseBlobBytes GaugeVec
}

var (
	DefaultScoringBuckets = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}
	DefaultStageBuckets   = []float64{.1, .5, 1, 5, 10, 30, 60, 300, 900, 3600}
	DefaultCountBuckets   = []float64{0, 1, 5, 10, 25, 50, 100, 250, 500}
)

// NewPredictionMetrics registers every family on collector.
func NewPredictionMetrics(collector MetricsCollector) *PredictionMetrics {
	return &PredictionMetrics{
		MoleculesTotal:    collector.RegisterCounter("molecules_scored_total", "Query molecules processed by workers", "status"),
		ScoringDuration:   collector.RegisterHistogram("scoring_duration_seconds", "Scorer latency per query molecule", DefaultScoringBuckets, "mode"),
		HitsTotal:         collector.RegisterCounter("hits_total", "Database molecules surviving the thresholds"),
		TargetsPerQuery:   collector.RegisterHistogram("targets_per_query", "Distinct targets predicted per query molecule", DefaultCountBuckets),
		ActiveWorkers:     collector.RegisterGauge("active_workers", "Workers currently scoring"),
		CacheLookups:      collector.RegisterCounter("score_cache_lookups_total", "Score cache lookups", "result"),
		PublishTotal:      collector.RegisterCounter("results_published_total", "Result messages published", "status"),
		StageDuration:     collector.RegisterHistogram("stage_duration_seconds", "Duration of pipeline stages", DefaultStageBuckets, "stage"),
		DatabaseBlobBytes: collector.RegisterGauge("database_blob_bytes", "Size of loaded database blobs", "fingerprint"),
	}
}

// RecordMolecule counts one processed molecule and its scoring latency.
func (m *PredictionMetrics) RecordMolecule(mode string, d time.Duration, hits, targets int, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.MoleculesTotal.WithLabelValues(status).Inc()
	m.ScoringDuration.WithLabelValues(mode).Observe(d.Seconds())
	if err == nil {
		m.HitsTotal.WithLabelValues().Add(float64(hits))
		m.TargetsPerQuery.WithLabelValues().Observe(float64(targets))
	}
}

// WorkerStarted and WorkerStopped track the number of busy workers.
func (m *PredictionMetrics) WorkerStarted() {
	if m != nil {
		m.ActiveWorkers.WithLabelValues().Inc()
	}
}

// WorkerStopped decrements the busy worker gauge.
func (m *PredictionMetrics) WorkerStopped() {
	if m != nil {
		m.ActiveWorkers.WithLabelValues().Dec()
	}
}

// RecordCacheLookup counts a score cache hit or miss.
func (m *PredictionMetrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// RecordPublish counts a published result message.
func (m *PredictionMetrics) RecordPublish(err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.PublishTotal.WithLabelValues(status).Inc()
}

// RecordStage observes the duration of a named pipeline stage.
func (m *PredictionMetrics) RecordStage(stage string, d time.Duration) {
	if m != nil {
		m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// RecordBlob records the size of a loaded database blob.
func (m *PredictionMetrics) RecordBlob(fp string, size int) {
	if m != nil {
		m.DatabaseBlobBytes.WithLabelValues(fp).Set(float64(size))
	}
}

//Personal.AI order the ending
