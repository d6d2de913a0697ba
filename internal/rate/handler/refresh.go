package handler

import (
	"errors"
	"net/http"
	"ratehub/internal/rate"
	"time"

	"github.com/sirupsen/logrus"
)

type SourceFailureResponse struct {
	Source string `json:"source" example:"coingecko"`
	Error  string `json:"error" example:"source coingecko: unexpected status code 429"`
}

type RefreshResponse struct {
	ExecID      string                  `json:"exec_id" example:"77b5d9f5-0569-47e3-aee2-f659d59fbd97"`
	Message     string                  `json:"message" example:"updated 14 currencies"`
	Updated     int                     `json:"updated" example:"14"`
	Sources     []string                `json:"sources"`
	Failed      []SourceFailureResponse `json:"failed"`
	LastRefresh time.Time               `json:"last_refresh" example:"2025-01-02T15:04:05Z"`
}

// Refresh godoc
// @Summary Refresh rates now
// @Description Fetch every source (or the one named by source) and replace the cached rates
// @Tags Rates
// @Produce json
// @Param source query string false "Source name, e.g. coingecko or exchangerate"
// @Success 200 {object} RefreshResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse "refresh already in progress"
// @Failure 500 {object} errorResponse
// @Failure 502 {object} errorResponse "no source responded"
// @Router /rates/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")

	res, err := h.service.Refresh(r.Context(), source)
	if err != nil {
		switch {
		case errors.Is(err, rate.ErrUnknownSource):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, rate.ErrRefreshInProgress):
			writeError(w, http.StatusConflict, err.Error())
		default:
			msg := "ups, couldn't refresh rates this time"
			logrus.WithError(err).WithFields(logrus.Fields{"handler": "Refresh", "source": source, "exec_id": res.ExecID}).Error(msg)
			writeError(w, http.StatusInternalServerError, msg)
		}
		return
	}

	if res.Written == 0 {
		writeError(w, http.StatusBadGateway, res.Message())
		return
	}

	failed := make([]SourceFailureResponse, 0, len(res.Failed))
	for _, f := range res.Failed {
		failed = append(failed, SourceFailureResponse{Source: f.Source, Error: f.Err.Error()})
	}
	writeJSON(w, http.StatusOK, RefreshResponse{
		ExecID:      res.ExecID,
		Message:     res.Message(),
		Updated:     res.Written,
		Sources:     res.Sources,
		Failed:      failed,
		LastRefresh: res.LastRefresh,
	})
}
