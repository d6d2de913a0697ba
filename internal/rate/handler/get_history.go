package handler

import (
	"net/http"
	"ratehub/internal/domain"
	"ratehub/internal/rate"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 1000
)

type HistoryEntryResponse struct {
	ID        string            `json:"id" example:"EUR_USD_2025-01-02T15:04:05.123456Z"`
	From      string            `json:"from_currency" example:"EUR"`
	To        string            `json:"to_currency" example:"USD"`
	Rate      float64           `json:"rate" example:"1.08"`
	Timestamp time.Time         `json:"timestamp" example:"2025-01-02T15:04:05.123456Z"`
	Source    string            `json:"source" example:"exchangerate"`
	Meta      map[string]string `json:"meta,omitempty"`
}

type GetHistoryResponse struct {
	Entries []HistoryEntryResponse `json:"entries"`
}

// GetHistory godoc
// @Summary Rate history
// @Description Return recorded quotes, oldest first, optionally for one pair
// @Tags Rates
// @Produce json
// @Param pair query string false "Pair key, e.g. EUR_USD"
// @Param limit query int false "Max entries (newest kept), default 100, max 1000"
// @Success 200 {object} GetHistoryResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /rates/history [get]
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	filter := rate.HistoryFilter{Limit: defaultHistoryLimit}

	if raw := r.URL.Query().Get("pair"); raw != "" {
		p, err := domain.ParsePairKey(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Pair = &p
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > maxHistoryLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		filter.Limit = limit
	}

	entries, err := h.service.History(r.Context(), filter)
	if err != nil {
		msg := "ups, couldn't read history this time"
		logrus.WithError(err).WithField("handler", "GetHistory").Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	res := GetHistoryResponse{Entries: make([]HistoryEntryResponse, 0, len(entries))}
	for _, e := range entries {
		res.Entries = append(res.Entries, HistoryEntryResponse{
			ID:        e.ID,
			From:      e.Quote.Pair.From.String(),
			To:        e.Quote.Pair.To.String(),
			Rate:      e.Quote.Rate,
			Timestamp: e.Quote.ObservedAt,
			Source:    e.Quote.Source,
			Meta:      e.Meta,
		})
	}
	writeJSON(w, http.StatusOK, res)
}
