package ai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storyweaver_ai_requests_total",
			Help: "Total number of requests to the generative text API.",
		},
		[]string{"operation", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storyweaver_ai_request_duration_seconds",
			Help:    "Histogram of generative text API request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	aiPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storyweaver_ai_prompt_tokens",
			Help:    "Histogram of prompt token counts per operation. Grows with story length since the full chapter history is sent on every continuation.",
			Buckets: prometheus.LinearBuckets(250, 250, 20), // 250, 500, ..., 5000
		},
		[]string{"operation"},
	)
)
