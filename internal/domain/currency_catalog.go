package domain

import (
	"fmt"
	"maps"
	"slices"
)

type CurrencyKind string

const (
	KindFiat   CurrencyKind = "fiat"
	KindCrypto CurrencyKind = "crypto"
)

// Currency describes a supported currency. IssuingCountry is set for fiat,
// Algorithm and MarketCap for crypto.
type Currency struct {
	Code           CurrencyCode
	Name           string
	Kind           CurrencyKind
	IssuingCountry string
	Algorithm      string
	MarketCap      float64
}

func (c Currency) DisplayInfo() string {
	switch c.Kind {
	case KindCrypto:
		return fmt.Sprintf("[CRYPTO] %s - %s (Algo: %s, MCAP: %.2e)", c.Code, c.Name, c.Algorithm, c.MarketCap)
	default:
		return fmt.Sprintf("[FIAT] %s - %s (Issuing: %s)", c.Code, c.Name, c.IssuingCountry)
	}
}

// Catalog is a read-only set of currencies known to the service.
type Catalog struct {
	byCode map[CurrencyCode]Currency
}

func NewCatalog(currencies ...Currency) *Catalog {
	byCode := make(map[CurrencyCode]Currency, len(currencies))
	for _, c := range currencies {
		byCode[c.Code] = c
	}
	return &Catalog{byCode: byCode}
}

// DefaultCatalog holds the currencies the bundled sources quote.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Currency{Code: "USD", Name: "US Dollar", Kind: KindFiat, IssuingCountry: "United States"},
		Currency{Code: "EUR", Name: "Euro", Kind: KindFiat, IssuingCountry: "Eurozone"},
		Currency{Code: "GBP", Name: "British Pound", Kind: KindFiat, IssuingCountry: "United Kingdom"},
		Currency{Code: "RUB", Name: "Russian Ruble", Kind: KindFiat, IssuingCountry: "Russia"},
		Currency{Code: "BTC", Name: "Bitcoin", Kind: KindCrypto, Algorithm: "SHA-256", MarketCap: 1.12e12},
		Currency{Code: "ETH", Name: "Ethereum", Kind: KindCrypto, Algorithm: "Ethash", MarketCap: 3.45e11},
		Currency{Code: "SOL", Name: "Solana", Kind: KindCrypto, Algorithm: "Proof of History", MarketCap: 7.8e10},
	)
}

// With returns a copy that also contains code. Known codes are left untouched;
// unknown ones are added with the code as name.
func (c *Catalog) With(code CurrencyCode, kind CurrencyKind) *Catalog {
	byCode := maps.Clone(c.byCode)
	if _, ok := byCode[code]; !ok {
		byCode[code] = Currency{Code: code, Name: string(code), Kind: kind}
	}
	return &Catalog{byCode: byCode}
}

func (c *Catalog) Get(code CurrencyCode) (Currency, error) {
	cur, ok := c.byCode[code]
	if !ok {
		return Currency{}, fmt.Errorf("%w: %q", ErrCurrencyNotFound, code)
	}
	return cur, nil
}

func (c *Catalog) Has(code CurrencyCode) bool {
	_, ok := c.byCode[code]
	return ok
}

// All returns every currency ordered by code.
func (c *Catalog) All() []Currency {
	codes := slices.Collect(maps.Keys(c.byCode))
	slices.Sort(codes)
	out := make([]Currency, 0, len(codes))
	for _, code := range codes {
		out = append(out, c.byCode[code])
	}
	return out
}
