package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"ratehub/internal/domain"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const ExchangeRateSourceName = "exchangerate"

// ExchangeRateSource reads a base-anchored fiat table from ExchangeRate-API v6.
type ExchangeRateSource struct {
	http       *http.Client
	baseURL    string
	apiKey     string
	base       domain.CurrencyCode
	currencies []domain.CurrencyCode
	retry      RetryPolicy
}

type apiResponse struct {
	Result          string             `json:"result"`
	ErrorType       string             `json:"error-type"`
	BaseCode        string             `json:"base_code"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

func (s *ExchangeRateSource) Name() string { return ExchangeRateSourceName }

// Fetch returns BASE_F = r and F_BASE = 1/r for each configured fiat code F,
// or for every code in the table when none are configured.
func (s *ExchangeRateSource) Fetch(ctx context.Context) ([]domain.Quote, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, s.fail("failed to parse base URL", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + s.apiKey + "/latest/" + string(s.base)

	var body apiResponse
	if err = getJSON(ctx, s.http, u.String(), nil, s.retry, &body); err != nil {
		return nil, s.fail(fmt.Sprintf("request for base %q failed", s.base), err)
	}
	if body.Result != "success" {
		reason := fmt.Sprintf("api returned non-success result for base %q: %s", s.base, body.Result)
		if body.ErrorType != "" {
			reason += " (" + body.ErrorType + ")"
		}
		return nil, s.fail(reason, nil)
	}
	if body.ConversionRates == nil {
		return nil, s.fail(fmt.Sprintf("response for base %q has no conversion_rates", s.base), nil)
	}

	codes := s.currencies
	if len(codes) == 0 {
		codes = make([]domain.CurrencyCode, 0, len(body.ConversionRates))
		for raw := range body.ConversionRates {
			code, parseErr := domain.ParseCurrencyCode(raw)
			if parseErr != nil {
				continue
			}
			codes = append(codes, code)
		}
	}

	observedAt := time.Now().UTC()
	quotes := make([]domain.Quote, 0, 2*len(codes))
	for _, code := range codes {
		if code == s.base {
			continue
		}
		r, ok := body.ConversionRates[string(code)]
		if !ok {
			logrus.Debugf("ExchangeRate-API has no rate for %s", code)
			continue
		}
		direct, qErr := domain.NewQuote(domain.NewPair(s.base, code), r, observedAt, s.Name())
		if qErr != nil {
			logrus.Debugf("ExchangeRate-API rate for %s skipped: %v", code, qErr)
			continue
		}
		quotes = append(quotes, direct)
		if inv, ok := direct.Inverse(); ok {
			quotes = append(quotes, inv)
		}
	}
	return quotes, nil
}

func (s *ExchangeRateSource) fail(reason string, err error) error {
	return &domain.SourceError{Source: s.Name(), Reason: reason, Err: err}
}

func NewExchangeRateSource(httpClient *http.Client, baseURL, apiKey string, base domain.CurrencyCode, currencies []domain.CurrencyCode, retry RetryPolicy) *ExchangeRateSource {
	return &ExchangeRateSource{
		http:       httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		base:       base,
		currencies: currencies,
		retry:      retry,
	}
}
