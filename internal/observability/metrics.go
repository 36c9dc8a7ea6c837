package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "trackfit"

var (
	activitiesGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "activities",
		Help:      "Number of activity entries held, split by origin.",
	}, []string{"origin"})
	mutationsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "mutations_total",
		Help:      "Activity store mutations by operation.",
	}, []string{"op"})
	persistErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "persist_errors_total",
		Help:      "Failed document writes by document key.",
	}, []string{"document"})
	badgesCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "badges",
		Name:      "achieved_total",
		Help:      "Badges achieved, by badge id.",
	}, []string{"badge"})
	syncRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "runs_total",
		Help:      "Health sync runs by result (ok or degraded).",
	}, []string{"result"})
	syncLastGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the most recent completed health sync.",
	})
	syncDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "fetch_duration_seconds",
		Help:      "Time spent fetching aggregates from the health source.",
		Buckets:   prometheus.DefBuckets,
	})
	overallProgress = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "goals",
		Name:      "overall_progress_ratio",
		Help:      "Mean weekly goal progress, 0 to 1.",
	})
)

func init() {
	prometheus.MustRegister(
		activitiesGauge,
		mutationsCounter,
		persistErrors,
		badgesCounter,
		syncRuns,
		syncLastGauge,
		syncDuration,
		overallProgress,
	)
}

func RecordActivities(user, external int) {
	activitiesGauge.WithLabelValues("user").Set(float64(user))
	activitiesGauge.WithLabelValues("external").Set(float64(external))
}

func RecordMutation(op string) {
	mutationsCounter.WithLabelValues(op).Inc()
}

func RecordPersistError(document string) {
	persistErrors.WithLabelValues(document).Inc()
}

func RecordBadgeAchieved(id string) {
	badgesCounter.WithLabelValues(id).Inc()
}

// RecordSync counts a finished sync. degraded is true when any category fell
// back to zero because the source failed.
func RecordSync(at time.Time, fetch time.Duration, degraded bool) {
	result := "ok"
	if degraded {
		result = "degraded"
	}
	syncRuns.WithLabelValues(result).Inc()
	syncDuration.Observe(fetch.Seconds())
	if !at.IsZero() {
		syncLastGauge.Set(float64(at.Unix()))
	}
}

func RecordOverallProgress(ratio float64) {
	overallProgress.Set(ratio)
}

// WriteTextfile dumps the default registry in the node_exporter textfile
// format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
