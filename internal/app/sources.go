package app

import (
	"fmt"
	"net/http"
	"strings"

	"ratehub/internal/adapters"
	"ratehub/internal/adapters/httpclient"
	"ratehub/internal/config"
	"ratehub/internal/domain"
)

type sourceFactory func(cfg *config.AppConfig, client *http.Client, base domain.CurrencyCode, retry httpclient.RetryPolicy) (adapters.RateSource, []domain.CurrencyCode, error)

var sourceFactories = map[string]sourceFactory{
	config.SourceCoinGecko:    newCoinGecko,
	config.SourceExchangeRate: newExchangeRate,
}

// buildSources creates the configured sources in precedence order and returns the
// default catalog extended with every code they quote.
func buildSources(cfg *config.AppConfig, client *http.Client, base domain.CurrencyCode) ([]adapters.RateSource, *domain.Catalog, error) {
	retry := httpclient.DefaultRetryPolicy()
	retry.MaxElapsed = cfg.HTTPClient.RetryMaxElapsed()

	catalog := domain.DefaultCatalog().With(base, domain.KindFiat)
	sources := make([]adapters.RateSource, 0, len(cfg.Rates.Sources))
	for _, name := range cfg.Rates.Sources {
		factory, ok := sourceFactories[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, nil, fmt.Errorf("unknown rate source %q", name)
		}
		src, codes, err := factory(cfg, client, base, retry)
		if err != nil {
			return nil, nil, err
		}
		kind := domain.KindFiat
		if src.Name() == httpclient.CoinGeckoSourceName {
			kind = domain.KindCrypto
		}
		for _, code := range codes {
			catalog = catalog.With(code, kind)
		}
		sources = append(sources, src)
	}
	return sources, catalog, nil
}

func newCoinGecko(cfg *config.AppConfig, client *http.Client, base domain.CurrencyCode, retry httpclient.RetryPolicy) (adapters.RateSource, []domain.CurrencyCode, error) {
	ids := make(map[domain.CurrencyCode]string, len(cfg.CoinGecko.CryptoIDs))
	codes := make([]domain.CurrencyCode, 0, len(cfg.CoinGecko.CryptoIDs))
	for rawCode, id := range cfg.CoinGecko.CryptoIDs {
		code, err := domain.ParseCurrencyCode(rawCode)
		if err != nil {
			return nil, nil, fmt.Errorf("coingecko.crypto_ids: %q: %w", rawCode, err)
		}
		ids[code] = id
		codes = append(codes, code)
	}
	src := httpclient.NewCoinGeckoSource(client, strings.TrimSuffix(cfg.CoinGecko.BaseURL, "/"), cfg.CoinGecko.APIKey, base, ids, retry)
	return src, codes, nil
}

func newExchangeRate(cfg *config.AppConfig, client *http.Client, base domain.CurrencyCode, retry httpclient.RetryPolicy) (adapters.RateSource, []domain.CurrencyCode, error) {
	if cfg.ExchangeRateAPI.APIKey == "" {
		return nil, nil, fmt.Errorf("exchange rate api key is required")
	}
	codes := make([]domain.CurrencyCode, 0, len(cfg.ExchangeRateAPI.FiatCurrencies))
	for _, raw := range cfg.ExchangeRateAPI.FiatCurrencies {
		code, err := domain.ParseCurrencyCode(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("exchange_rate_api.fiat_currencies: %q: %w", raw, err)
		}
		codes = append(codes, code)
	}
	src := httpclient.NewExchangeRateSource(client, strings.TrimSuffix(cfg.ExchangeRateAPI.BaseURL, "/"), cfg.ExchangeRateAPI.APIKey, base, codes, retry)
	return src, codes, nil
}
