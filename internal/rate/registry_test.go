package rate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSourceRegistry_Select(t *testing.T) {
	crypto := newSource("coingecko")
	fiat := newSource("exchangerate")
	reg := NewSourceRegistry(crypto, fiat)

	all, err := reg.Select("")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "coingecko", all[0].Name())
	require.Equal(t, "exchangerate", all[1].Name())

	one, err := reg.Select(" ExchangeRate ")
	require.NoError(t, err)
	require.Len(t, one, 1)
	require.Equal(t, "exchangerate", one[0].Name())

	_, err = reg.Select("bloomberg")
	require.ErrorIs(t, err, ErrUnknownSource)

	require.Equal(t, []string{"coingecko", "exchangerate"}, reg.Names())
}
