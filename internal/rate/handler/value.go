package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"ratehub/internal/domain"
	"ratehub/internal/rate"
	"time"

	"github.com/sirupsen/logrus"
)

type ValueRequest struct {
	Base     string             `json:"base" example:"USD"`
	Balances map[string]float64 `json:"balances"`
}

type ContributionResponse struct {
	Currency string  `json:"currency" example:"EUR"`
	Amount   float64 `json:"amount" example:"100"`
	Rate     float64 `json:"rate" example:"1.08"`
	Value    float64 `json:"value" example:"108"`
	Inverted bool    `json:"inverted" example:"false"`
}

type ValueResponse struct {
	Base        string                 `json:"base" example:"USD"`
	Total       string                 `json:"total" example:"108.00"`
	RawTotal    float64                `json:"raw_total" example:"108.00000000000001"`
	Breakdown   []ContributionResponse `json:"breakdown"`
	LastRefresh *time.Time             `json:"last_refresh"`
	Stale       bool                   `json:"stale" example:"false"`
}

// Value godoc
// @Summary Value a balance set
// @Description Convert every balance into base with the cached rates and sum them
// @Tags Valuations
// @Accept json
// @Produce json
// @Param request body ValueRequest true "Balances by currency code"
// @Success 200 {object} ValueResponse
// @Failure 400 {object} errorResponse
// @Failure 422 {object} errorResponse "rate unavailable"
// @Failure 500 {object} errorResponse
// @Router /valuations [post]
func (h *Handler) Value(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req ValueRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	base, err := domain.ParseCurrencyCode(req.Base)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("base: %s", err))
		return
	}
	balances := make(map[domain.CurrencyCode]float64, len(req.Balances))
	for raw, amount := range req.Balances {
		code, parseErr := domain.ParseCurrencyCode(raw)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("balance %q: %s", raw, parseErr))
			return
		}
		balances[code] += amount
	}

	v, err := h.service.Value(r.Context(), balances, base)
	if err != nil {
		var unavailable *domain.RateUnavailableError
		switch {
		case errors.As(err, &unavailable):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, rate.ErrInvalidBalance):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			msg := "ups, couldn't value balances this time"
			logrus.WithError(err).WithFields(logrus.Fields{"handler": "Value", "base": base}).Error(msg)
			writeError(w, http.StatusInternalServerError, msg)
		}
		return
	}

	res := ValueResponse{
		Base:      v.Base.String(),
		Total:     v.Total.StringFixed(2),
		RawTotal:  v.RawTotal,
		Breakdown: make([]ContributionResponse, 0, len(v.Breakdown)),
		Stale:     v.Stale,
	}
	for _, c := range v.Breakdown {
		res.Breakdown = append(res.Breakdown, ContributionResponse{
			Currency: c.Currency.String(),
			Amount:   c.Amount,
			Rate:     c.Rate,
			Value:    c.Value,
			Inverted: c.Inverted,
		})
	}
	if !v.LastRefresh.IsZero() {
		lastRefresh := v.LastRefresh
		res.LastRefresh = &lastRefresh
	}
	writeJSON(w, http.StatusOK, res)
}
