package rate

import (
	"errors"
	"ratehub/internal/domain"
	"slices"
	"strings"
)

var (
	ErrBaseRequired     = errors.New("base currency is required")
	ErrQuoteRequired    = errors.New("quote currency is required")
	ErrSameCodes        = errors.New("base and quote must be different")
	ErrBaseUnsupported  = errors.New("base currency not supported")
	ErrQuoteUnsupported = errors.New("quote currency not supported")
)

type CurrencyValidator struct {
	catalog           *domain.Catalog
	supportedCodesLst []string // read only copy
}

// ValidateCodes checks a from/to request against the catalog and returns the parsed pair.
func (v *CurrencyValidator) ValidateCodes(base, quote string) (domain.Pair, error) {
	if strings.TrimSpace(base) == "" {
		return domain.Pair{}, ErrBaseRequired
	}
	if strings.TrimSpace(quote) == "" {
		return domain.Pair{}, ErrQuoteRequired
	}
	from, err := domain.ParseCurrencyCode(base)
	if err != nil {
		return domain.Pair{}, err
	}
	to, err := domain.ParseCurrencyCode(quote)
	if err != nil {
		return domain.Pair{}, err
	}
	if from == to {
		return domain.Pair{}, ErrSameCodes
	}
	if !v.catalog.Has(from) {
		return domain.Pair{}, ErrBaseUnsupported
	}
	if !v.catalog.Has(to) {
		return domain.Pair{}, ErrQuoteUnsupported
	}
	return domain.NewPair(from, to), nil
}

func (v *CurrencyValidator) SupportedCodes() []string {
	return slices.Clone(v.supportedCodesLst)
}

func NewValidator(catalog *domain.Catalog) *CurrencyValidator {
	all := catalog.All()
	codes := make([]string, 0, len(all))
	for _, c := range all {
		codes = append(codes, c.Code.String())
	}
	return &CurrencyValidator{catalog: catalog, supportedCodesLst: codes}
}
