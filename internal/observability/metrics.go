// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipebox_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recipebox_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// AdEventsTotal counts recorded ad impressions and clicks.
	AdEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipebox_ad_events_total",
		Help: "Total ad tracking events by type",
	}, []string{"type"})

	// AdDeliveriesTotal counts ad space lookups by location and whether an ad was served.
	AdDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipebox_ad_deliveries_total",
		Help: "Ad spaces delivered by location and outcome",
	}, []string{"location", "outcome"})

	// RecipeViewsTotal counts recipe detail fetches.
	RecipeViewsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recipebox_recipe_views_total",
		Help: "Total recipe detail views",
	})

	// EngagementToggles counts like/save/follow toggles by kind and resulting state.
	EngagementToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipebox_engagement_toggles_total",
		Help: "Engagement toggles by kind and resulting state",
	}, []string{"kind", "state"})

	// RecipesCreatedTotal counts newly authored recipes.
	RecipesCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipebox_recipes_created_total",
		Help: "Recipes created, labelled by initial publication state",
	}, []string{"published"})

	// MediaUploadsTotal counts processed image uploads by outcome.
	MediaUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipebox_media_uploads_total",
		Help: "Image uploads by outcome",
	}, []string{"outcome"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// ToggleState renders a toggle result as a metric label.
func ToggleState(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
