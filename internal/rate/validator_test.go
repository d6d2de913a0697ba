package rate

import (
	"testing"

	"ratehub/internal/domain"

	"github.com/stretchr/testify/require"
)

func testCatalog() *domain.Catalog {
	return domain.NewCatalog(
		domain.Currency{Code: "USD", Kind: domain.KindFiat},
		domain.Currency{Code: "EUR", Kind: domain.KindFiat},
	)
}

func TestCurrencyValidator_ValidateCodes_Errors(t *testing.T) {
	validator := NewValidator(testCatalog())

	_, err := validator.ValidateCodes("", "EUR")
	require.Equal(t, ErrBaseRequired, err)
	_, err = validator.ValidateCodes("USD", " ")
	require.Equal(t, ErrQuoteRequired, err)
	_, err = validator.ValidateCodes("USD", "usd")
	require.Equal(t, ErrSameCodes, err)
	_, err = validator.ValidateCodes("ABC", "EUR")
	require.Equal(t, ErrBaseUnsupported, err)
	_, err = validator.ValidateCodes("USD", "ZZZ")
	require.Equal(t, ErrQuoteUnsupported, err)
	_, err = validator.ValidateCodes("TOOLONG", "EUR")
	require.ErrorIs(t, err, domain.ErrInvalidCurrencyCode)
}

func TestCurrencyValidator_ValidateCodes_Success(t *testing.T) {
	validator := NewValidator(testCatalog())

	p, err := validator.ValidateCodes("usd", "Eur")
	require.NoError(t, err)
	require.Equal(t, domain.Pair{From: "USD", To: "EUR"}, p)
}

func TestCurrencyValidator_ValidateCodes_RejectsPaddedCodes(t *testing.T) {
	validator := NewValidator(testCatalog())

	_, err := validator.ValidateCodes(" usd", "EUR")
	require.ErrorIs(t, err, domain.ErrInvalidCurrencyCode)
	_, err = validator.ValidateCodes("USD", "eur\n")
	require.ErrorIs(t, err, domain.ErrInvalidCurrencyCode)
}

func TestCurrencyValidator_SupportedCodes(t *testing.T) {
	validator := NewValidator(testCatalog().With("JPY", domain.KindFiat))

	got := validator.SupportedCodes()
	require.Equal(t, []string{"EUR", "JPY", "USD"}, got)

	// ensure caller modifications do not affect validator internal state
	got[0] = "XXX"
	require.Equal(t, []string{"EUR", "JPY", "USD"}, validator.SupportedCodes())
}
