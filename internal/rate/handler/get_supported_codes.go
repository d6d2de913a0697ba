package handler

import (
	"net/http"
)

type CurrencyResponse struct {
	Code string `json:"code" example:"BTC"`
	Name string `json:"name" example:"Bitcoin"`
	Kind string `json:"kind" example:"crypto"`
	Info string `json:"info" example:"[CRYPTO] BTC - Bitcoin (Algo: SHA-256, MCAP: 1.12e+12)"`
}

type GetSupportedCodesResponse struct {
	Codes      []string           `json:"codes" example:"BTC,EUR,USD"`
	Currencies []CurrencyResponse `json:"currencies"`
}

// GetSupportedCodes godoc
// @Summary List supported currencies
// @Description Retrieve all supported currency codes with their catalog details
// @Tags Currencies
// @Produce json
// @Success 200 {object} GetSupportedCodesResponse
// @Router /currencies [get]
func (h *Handler) GetSupportedCodes(w http.ResponseWriter, _ *http.Request) {
	all := h.service.Currencies()
	currencies := make([]CurrencyResponse, 0, len(all))
	for _, c := range all {
		currencies = append(currencies, CurrencyResponse{
			Code: c.Code.String(),
			Name: c.Name,
			Kind: string(c.Kind),
			Info: c.DisplayInfo(),
		})
	}
	writeJSON(w, http.StatusOK, GetSupportedCodesResponse{
		Codes:      h.service.SupportedCodes(),
		Currencies: currencies,
	})
}
