package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RefreshMetrics holds the rate refresh collectors.
type RefreshMetrics struct {
	RefreshTotal        *prometheus.CounterVec
	RefreshDuration     prometheus.Histogram
	SourceFetchTotal    *prometheus.CounterVec
	SourceFetchDuration *prometheus.HistogramVec
	SourceQuotes        *prometheus.GaugeVec
	CachedPairs         prometheus.Gauge
	LastRefresh         prometheus.Gauge
}

// NewRefreshMetrics registers the collectors on reg.
func NewRefreshMetrics(reg prometheus.Registerer) *RefreshMetrics {
	factory := promauto.With(reg)
	return &RefreshMetrics{
		RefreshTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ratehub_refresh_total",
				Help: "Refresh cycles by outcome",
			},
			[]string{"outcome"},
		),
		RefreshDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ratehub_refresh_duration_seconds",
				Help:    "Duration of a refresh cycle in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms, 100ms, 200ms...
			},
		),
		SourceFetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ratehub_source_fetch_total",
				Help: "Source fetches by source and result",
			},
			[]string{"source", "result"},
		),
		SourceFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ratehub_source_fetch_duration_seconds",
				Help:    "Duration of a single source fetch in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"source"},
		),
		SourceQuotes: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ratehub_source_quotes",
				Help: "Quotes returned by the last successful fetch of a source",
			},
			[]string{"source"},
		),
		CachedPairs: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ratehub_cached_pairs",
				Help: "Pairs in the current batch",
			},
		),
		LastRefresh: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ratehub_last_refresh_timestamp_seconds",
				Help: "Unix time of the last committed refresh",
			},
		),
	}
}

func (m *RefreshMetrics) ObserveRefresh(outcome string, took time.Duration) {
	m.RefreshTotal.WithLabelValues(outcome).Inc()
	m.RefreshDuration.Observe(took.Seconds())
}

func (m *RefreshMetrics) ObserveSourceFetch(source string, err error, quotes int, took time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.SourceFetchTotal.WithLabelValues(source, result).Inc()
	m.SourceFetchDuration.WithLabelValues(source).Observe(took.Seconds())
	if err == nil {
		m.SourceQuotes.WithLabelValues(source).Set(float64(quotes))
	}
}

func (m *RefreshMetrics) SetCachedPairs(n int, lastRefresh time.Time) {
	m.CachedPairs.Set(float64(n))
	m.LastRefresh.Set(float64(lastRefresh.Unix()))
}
