package rate

import "time"

// Metrics receives refresh cycle observations.
type Metrics interface {
	ObserveRefresh(outcome string, took time.Duration)
	ObserveSourceFetch(source string, err error, quotes int, took time.Duration)
	SetCachedPairs(n int, lastRefresh time.Time)
}

const (
	OutcomeUpdated = "updated"
	OutcomeEmpty   = "empty"
	OutcomeFailed  = "failed"
)

type noopMetrics struct{}

func (noopMetrics) ObserveRefresh(string, time.Duration) {}
func (noopMetrics) ObserveSourceFetch(string, error, int, time.Duration) {}
func (noopMetrics) SetCachedPairs(int, time.Time) {}
