package handler

import (
	"errors"
	"net/http"
	"ratehub/internal/domain"
	"ratehub/internal/rate"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type GetRateResponse struct {
	From        string    `json:"from" example:"EUR"`
	To          string    `json:"to" example:"USD"`
	Rate        float64   `json:"rate" example:"1.08"`
	InverseRate float64   `json:"inverse_rate" example:"0.9259"`
	UpdatedAt   time.Time `json:"updated_at" example:"2025-01-02T15:04:05Z"`
	Source      string    `json:"source" example:"exchangerate"`
	Inverted    bool      `json:"inverted" example:"false"`
}

// GetRate godoc
// @Summary Get rate for a pair
// @Description Get the cached rate from -> to, resolved from the reverse quote when only that one is cached
// @Tags Rates
// @Produce json
// @Param from path string true "Source currency code"
// @Param to path string true "Target currency code"
// @Success 200 {object} GetRateResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /rates/{from}/{to} [get]
func (h *Handler) GetRate(w http.ResponseWriter, r *http.Request) {
	from := chi.URLParam(r, "from")
	to := chi.URLParam(r, "to")

	view, err := h.service.GetRate(r.Context(), from, to)
	if err != nil {
		switch {
		case isValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrRateNotFound):
			writeError(w, http.StatusNotFound, "rate not found")
		default:
			msg := "ups, couldn't get rate this time"
			logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetRate", "from": from, "to": to}).Error(msg)
			writeError(w, http.StatusInternalServerError, msg)
		}
		return
	}

	writeJSON(w, http.StatusOK, GetRateResponse{
		From:        view.Pair.From.String(),
		To:          view.Pair.To.String(),
		Rate:        view.Rate,
		InverseRate: view.InverseRate,
		UpdatedAt:   view.UpdatedAt,
		Source:      view.Source,
		Inverted:    view.Inverted,
	})
}

func isValidationError(err error) bool {
	for _, target := range []error{
		rate.ErrBaseRequired,
		rate.ErrQuoteRequired,
		rate.ErrSameCodes,
		rate.ErrBaseUnsupported,
		rate.ErrQuoteUnsupported,
		domain.ErrInvalidCurrencyCode,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
