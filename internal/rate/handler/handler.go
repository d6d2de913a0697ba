package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"ratehub/internal/domain"
	"ratehub/internal/rate"
)

type RateService interface {
	Refresh(ctx context.Context, source string) (rate.RefreshResult, error)
	ReadCache(ctx context.Context) rate.CacheView
	Value(ctx context.Context, balances map[domain.CurrencyCode]float64, base domain.CurrencyCode) (rate.Valuation, error)
	GetRate(ctx context.Context, base, quote string) (rate.RateView, error)
	History(ctx context.Context, filter rate.HistoryFilter) ([]domain.HistoryEntry, error)
	Currencies() []domain.Currency
	SupportedCodes() []string
}

type Handler struct {
	service RateService
}

func NewRateHandler(rateService RateService) *Handler {
	return &Handler{service: rateService}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorMsg,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
