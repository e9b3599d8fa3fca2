package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MatchTransitions counts successful match request transitions.
	MatchTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "creatorsync_match_transitions_total",
		Help: "Match request status transitions by from, to and action",
	}, []string{"from", "to", "action"})

	// MatchCASConflicts counts transitions lost to a concurrent writer.
	MatchCASConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "creatorsync_match_cas_conflicts_total",
		Help: "Compare-and-swap status writes that lost a race",
	}, []string{"action"})

	MatchRequestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creatorsync_match_requests_created_total",
		Help: "Like requests created by creators",
	})

	FeedSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "creatorsync_feed_size",
		Help:    "Number of editors returned per feed request",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	})

	AIEnrichment = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "creatorsync_ai_enrichment_total",
		Help: "AI match enrichment attempts by result",
	}, []string{"result"})

	ChatMessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creatorsync_chat_messages_sent_total",
		Help: "Chat messages accepted by the chat gate",
	})

	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "creatorsync_rate_limit_rejections_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"resource"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "creatorsync_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
