package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubportal_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	RequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clubportal_http_request_duration_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// Domain
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubportal_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"}, // success|invalid|not_approved
	)
	ClubsRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clubportal_clubs_registered_total",
			Help: "Club registrations accepted",
		},
	)
	ClubDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubportal_club_decisions_total",
			Help: "Admin decisions on club accounts",
		},
		[]string{"decision"}, // approve|reject|delete
	)
	PostsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clubportal_posts_published_total",
			Help: "Posts created",
		},
	)
	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clubportal_messages_sent_total",
			Help: "Direct messages sent",
		},
	)
	FeedbackSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clubportal_feedback_submitted_total",
			Help: "Feedback entries submitted",
		},
	)
	BlobCleanupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clubportal_blob_cleanup_failures_total",
			Help: "Best-effort blob deletions that failed",
		},
	)
	SlugConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clubportal_slug_conflicts_total",
			Help: "Slug unique violations retried at commit",
		},
	)

	// Dependencies
	RedisErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubportal_redis_errors_total",
			Help: "Redis command errors",
		},
		[]string{"command"},
	)
	WeatherFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubportal_weather_fetches_total",
			Help: "Weather lookups by result",
		},
		[]string{"result"}, // cache_hit|ok|degraded
	)
)

// Handler serves the /metrics endpoint
var Handler = promhttp.Handler
