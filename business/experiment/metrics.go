package experiment

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ExperimentEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "experiment_events_total",
			Help: "Count of A/B experiment events by variant and event_type.",
		},
		[]string{"variant", "event_type"},
	)
)

func init() {
	prometheus.MustRegister(ExperimentEventsTotal)
}
