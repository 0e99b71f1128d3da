package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attributely",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route pattern and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "attributely",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	EnrichmentResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attributely",
		Name:      "enrichment_results_total",
		Help:      "Insight enrichments by outcome.",
	}, []string{"outcome"})

	MetaAPIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attributely",
		Name:      "meta_api_requests_total",
		Help:      "Graph API calls by endpoint kind and status.",
	}, []string{"endpoint", "status"})

	TrackingEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attributely",
		Name:      "tracking_events_total",
		Help:      "Stored tracking events by platform.",
	}, []string{"platform"})
)
