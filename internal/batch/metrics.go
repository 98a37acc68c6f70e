package batch

import "github.com/prometheus/client_golang/prometheus"

var (
	jobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spokenweb_profile_jobs_total",
			Help: "Total recordings processed by the profiler",
		},
		[]string{"status"},
	)
	duration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spokenweb_profile_duration_seconds",
			Help:    "Time taken to profile a single recording",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(jobs, duration)
}
