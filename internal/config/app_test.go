package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("EXCHANGERATE_API_KEY", "secret")

	cfg, err := Load("missing.yaml")
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.HTTPServer.Port)
	require.Equal(t, 300, cfg.Rates.TTLSeconds)
	require.Equal(t, "USD", cfg.Rates.BaseCurrency)
	require.Equal(t, []string{SourceCoinGecko, SourceExchangeRate}, cfg.Rates.Sources)
	require.Equal(t, StorageFile, cfg.Storage.Driver)
	require.Equal(t, "data", cfg.Storage.DataDir)
	require.Equal(t, "exchange_rates.json", cfg.Storage.HistoryFile)
	require.Equal(t, "secret", cfg.ExchangeRateAPI.APIKey)
	require.Equal(t, []string{"EUR", "GBP", "RUB"}, cfg.ExchangeRateAPI.FiatCurrencies)
	require.Len(t, cfg.CoinGecko.CryptoIDs, 3)
	require.Equal(t, int64(1024), cfg.LookupCache.MaxItems)
	require.Equal(t, 3000, cfg.HTTPClient.RetryMaxElapsedMs)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
http_server:
  port: "9090"
rates:
  ttl_seconds: 60
  sources: [exchangerate]
exchange_rate_api:
  api_key: from-file
  fiat_currencies: [EUR, JPY]
storage:
  driver: redis
`)
	t.Setenv("RATES_TTL_SECONDS", "120")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.HTTPServer.Port)
	require.Equal(t, 120, cfg.Rates.TTLSeconds)
	require.Equal(t, []string{SourceExchangeRate}, cfg.Rates.Sources)
	require.Equal(t, "from-file", cfg.ExchangeRateAPI.APIKey)
	require.Equal(t, []string{"EUR", "JPY"}, cfg.ExchangeRateAPI.FiatCurrencies)
	require.Equal(t, StorageRedis, cfg.Storage.Driver)
	require.Equal(t, "redis:6380", cfg.Redis.Addr)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_SourcesFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RATES_SOURCES", "coingecko")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, []string{SourceCoinGecko}, cfg.Rates.Sources)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, `
rates:
  ttl_seconds: 0
  sources: [exchangerate, fixer]
storage:
  driver: mongo
`)

	_, err := Load(path)
	require.Error(t, err)
	require.ErrorContains(t, err, "rates.ttl_seconds must be positive")
	require.ErrorContains(t, err, "exchange rate api key is required")
	require.ErrorContains(t, err, `unknown rate source "fixer"`)
	require.ErrorContains(t, err, `unknown storage driver "mongo"`)
}

func TestLoad_BrokenYAML(t *testing.T) {
	path := writeConfig(t, "rates: [::")

	_, err := Load(path)
	require.ErrorContains(t, err, "error reading config file")
}

func TestValidate_PostgresNeedsDB(t *testing.T) {
	cfg := AppConfig{
		HTTPServer: HTTPServer{Port: "8080"},
		Rates:      Rates{TTLSeconds: 1, BaseCurrency: "USD", Sources: []string{SourceCoinGecko}},
		CoinGecko:  CoinGecko{BaseURL: "http://x", CryptoIDs: map[string]string{"btc": "bitcoin"}},
		Storage:    Storage{Driver: StoragePostgres},
	}
	require.ErrorContains(t, cfg.Validate(), "db_server.host and db_server.name are required")

	cfg.DbServer = DbServer{Host: "localhost", Name: "rates"}
	require.NoError(t, cfg.Validate())
}

func TestDbServer_GetConnectionStr(t *testing.T) {
	cfg := DbServer{Host: "db", Port: "5432", User: "u", Pass: "p", Name: "rates"}
	require.Equal(t, "user=u password=p host=db port=5432 dbname=rates sslmode=disable pool_max_conns=10", cfg.GetConnectionStr())
}
