package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ratehub/internal/domain"
	"ratehub/internal/rate"
	"ratehub/internal/rate/handler"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	handler.RateService
	gotFrom, gotTo string
}

func (s *stubService) GetRate(_ context.Context, base, quote string) (rate.RateView, error) {
	s.gotFrom, s.gotTo = base, quote
	return rate.RateView{Pair: domain.Pair{From: "EUR", To: "USD"}, Rate: 1.08}, nil
}

func (s *stubService) ReadCache(context.Context) rate.CacheView {
	return rate.CacheView{Batch: domain.EmptyBatch()}
}

func TestRouter_Healthz(t *testing.T) {
	router := NewRouter(handler.NewRateHandler(&stubService{}), prometheus.NewRegistry())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_RoutesRateRequests(t *testing.T) {
	svc := &stubService{}
	router := NewRouter(handler.NewRateHandler(svc), prometheus.NewRegistry())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/rates/eur/usd", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "eur", svc.gotFrom)
	require.Equal(t, "usd", svc.gotTo)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "ratehub_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	router := NewRouter(handler.NewRateHandler(&stubService{}), reg)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "ratehub_test_total 1")
}
