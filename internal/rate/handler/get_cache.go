package handler

import (
	"net/http"
	"time"
)

type QuoteResponse struct {
	Rate      float64   `json:"rate" example:"1.08"`
	UpdatedAt time.Time `json:"updated_at" example:"2025-01-02T15:04:05Z"`
	Source    string    `json:"source" example:"exchangerate"`
}

type GetCacheResponse struct {
	Pairs       map[string]QuoteResponse `json:"pairs"`
	LastRefresh *time.Time               `json:"last_refresh"`
	Fresh       bool                     `json:"fresh"`
}

// GetCache godoc
// @Summary Read cached rates
// @Description Return every cached pair with the time of the last successful refresh
// @Tags Rates
// @Produce json
// @Success 200 {object} GetCacheResponse
// @Router /rates [get]
func (h *Handler) GetCache(w http.ResponseWriter, r *http.Request) {
	view := h.service.ReadCache(r.Context())

	res := GetCacheResponse{
		Pairs: make(map[string]QuoteResponse, view.Batch.Len()),
		Fresh: view.Fresh,
	}
	for _, q := range view.Batch.SortedQuotes() {
		res.Pairs[q.Pair.Key()] = QuoteResponse{Rate: q.Rate, UpdatedAt: q.ObservedAt, Source: q.Source}
	}
	if view.Batch.HasRefreshed() {
		lastRefresh := view.Batch.LastRefresh
		res.LastRefresh = &lastRefresh
	}
	writeJSON(w, http.StatusOK, res)
}
