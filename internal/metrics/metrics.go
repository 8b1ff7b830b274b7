package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobcompass_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	CollectedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobcompass_jobs_collected_total",
			Help: "Raw records collected, by source.",
		},
		[]string{"source"},
	)
	DroppedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobcompass_jobs_dropped_total",
			Help: "Raw records that could not be normalized.",
		},
	)
	InvalidCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobcompass_jobs_invalid_total",
			Help: "Canonical jobs rejected by validation.",
		},
	)
	DuplicatesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobcompass_jobs_duplicate_total",
			Help: "Jobs removed as same-run duplicates.",
		},
	)
	FeaturedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobcompass_jobs_featured_total",
			Help: "Jobs that went through feature extraction.",
		},
	)
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobcompass_pipeline_run_duration_seconds",
			Help:    "Duration of each full pipeline run in seconds.",
			Buckets: []float64{10, 60, 300, 900, 1800, 3600},
		},
	)
	StageDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "jobcompass_pipeline_stage_duration_seconds",
			Help:       "Duration of each stage in the pipeline run.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"stage"},
	)
)

func StartMetricsServer(port int) {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(CollectedCounter)
	prometheus.MustRegister(DroppedCounter)
	prometheus.MustRegister(InvalidCounter)
	prometheus.MustRegister(DuplicatesCounter)
	prometheus.MustRegister(FeaturedCounter)
	prometheus.MustRegister(RunDuration)
	prometheus.MustRegister(StageDuration)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", port), nil))
	}()
}
