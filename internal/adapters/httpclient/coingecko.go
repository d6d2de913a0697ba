package httpclient

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"ratehub/internal/domain"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const CoinGeckoSourceName = "coingecko"

// CoinGeckoSource reads crypto prices from the CoinGecko simple/price endpoint.
type CoinGeckoSource struct {
	http    *http.Client
	baseURL string
	apiKey  string
	base    domain.CurrencyCode
	ids     map[domain.CurrencyCode]string // code -> CoinGecko coin id
	retry   RetryPolicy
}

func (s *CoinGeckoSource) Name() string { return CoinGeckoSourceName }

// Fetch returns CODE_BASE = price and BASE_CODE = 1/price for every configured coin.
func (s *CoinGeckoSource) Fetch(ctx context.Context) ([]domain.Quote, error) {
	if len(s.ids) == 0 {
		return nil, nil
	}

	codes := slices.Sorted(maps.Keys(s.ids))
	ids := make([]string, 0, len(codes))
	for _, code := range codes {
		ids = append(ids, s.ids[code])
	}
	vs := strings.ToLower(string(s.base))

	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, s.fail("failed to parse base URL", err)
	}
	q := u.Query()
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", vs)
	u.RawQuery = q.Encode()

	var header http.Header
	if s.apiKey != "" {
		header = http.Header{"x-cg-demo-api-key": []string{s.apiKey}}
	}

	// {"bitcoin": {"usd": 59000.1}, ...}
	var body map[string]map[string]float64
	if err = getJSON(ctx, s.http, u.String(), header, s.retry, &body); err != nil {
		return nil, s.fail(fmt.Sprintf("request for %s failed", strings.Join(ids, ",")), err)
	}

	observedAt := time.Now().UTC()
	quotes := make([]domain.Quote, 0, 2*len(codes))
	for _, code := range codes {
		price, ok := body[s.ids[code]][vs]
		if !ok {
			logrus.Debugf("CoinGecko has no %s price for %s", vs, code)
			continue
		}
		direct, qErr := domain.NewQuote(domain.NewPair(code, s.base), price, observedAt, s.Name())
		if qErr != nil {
			logrus.Debugf("CoinGecko price for %s skipped: %v", code, qErr)
			continue
		}
		quotes = append(quotes, direct)
		if inv, ok := direct.Inverse(); ok {
			quotes = append(quotes, inv)
		}
	}
	return quotes, nil
}

func (s *CoinGeckoSource) fail(reason string, err error) error {
	return &domain.SourceError{Source: s.Name(), Reason: reason, Err: err}
}

func NewCoinGeckoSource(httpClient *http.Client, baseURL, apiKey string, base domain.CurrencyCode, ids map[domain.CurrencyCode]string, retry RetryPolicy) *CoinGeckoSource {
	return &CoinGeckoSource{
		http:    httpClient,
		baseURL: baseURL,
		apiKey:  apiKey,
		base:    base,
		ids:     maps.Clone(ids),
		retry:   retry,
	}
}
