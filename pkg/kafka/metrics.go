package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Events written to Kafka by topic and outcome (ok, error).",
	}, []string{"topic", "outcome"})

	publishLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront",
		Subsystem: "events",
		Name:      "publish_duration_seconds",
		Help:      "Time spent writing one event to Kafka.",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"topic"})
)
