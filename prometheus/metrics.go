package prometheus

import (
	"sync"
	"time"

	"github.com/codecat1111/radar-clone/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Technology metrics
	TechnologyListSize        prometheus.Histogram
	TechnologyViewsCounter    *prometheus.CounterVec
	SuggestionQueriesCounter  prometheus.Counter
	FilterCacheCounter        *prometheus.CounterVec
	RadarRendersCounter       *prometheus.CounterVec
	StaleDetailResponsesTotal prometheus.Counter

	initOnce sync.Once
)

// InitMetrics initializes Prometheus metrics with configuration. Only the
// first call registers collectors.
func InitMetrics(config *config.Config) {
	initOnce.Do(func() {
		register(promauto.With(prometheus.DefaultRegisterer), config.Metrics.Prefix)
	})
}

func register(factory promauto.Factory, prefix string) {
	HttpRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	DbOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	TechnologyListSize = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    prefix + "_technology_list_size",
			Help:    "Number of technologies returned per listing",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 200},
		},
	)

	TechnologyViewsCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_technology_views_total",
			Help: "Total number of technology detail views",
		},
		[]string{"details"},
	)

	SuggestionQueriesCounter = factory.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_suggestion_queries_total",
			Help: "Total number of typeahead suggestion queries",
		},
	)

	FilterCacheCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_filter_cache_total",
			Help: "Filter option cache lookups by result",
		},
		[]string{"result"},
	)

	RadarRendersCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_radar_renders_total",
			Help: "Total number of rendered radar images",
		},
		[]string{"view", "format"},
	)

	StaleDetailResponsesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_stale_detail_responses_total",
			Help: "Detail responses discarded because a newer selection superseded them",
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordHTTPRequest records the count and duration of a served request
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if HttpRequestsTotal == nil {
		return
	}
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordTechnologyList observes the size of a listing page
func RecordTechnologyList(count int) {
	if TechnologyListSize != nil {
		TechnologyListSize.Observe(float64(count))
	}
}

// RecordTechnologyView increments the counter for technology detail views
func RecordTechnologyView(withDetails bool) {
	if TechnologyViewsCounter == nil {
		return
	}
	label := "false"
	if withDetails {
		label = "true"
	}
	TechnologyViewsCounter.WithLabelValues(label).Inc()
}

func RecordSuggestionQuery() {
	if SuggestionQueriesCounter != nil {
		SuggestionQueriesCounter.Inc()
	}
}

// RecordFilterCache records a cache "hit", "miss" or "error"
func RecordFilterCache(result string) {
	if FilterCacheCounter != nil {
		FilterCacheCounter.WithLabelValues(result).Inc()
	}
}

func RecordRadarRender(view, format string) {
	if RadarRendersCounter != nil {
		RadarRendersCounter.WithLabelValues(view, format).Inc()
	}
}

func RecordStaleDetailResponse() {
	if StaleDetailResponsesTotal != nil {
		StaleDetailResponsesTotal.Inc()
	}
}
