package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"

	SourceCoinGecko    = "coingecko"
	SourceExchangeRate = "exchangerate"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type DbServer struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable pool_max_conns=10",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type HTTPClient struct {
	TimeoutSeconds    int `mapstructure:"timeout_seconds"`
	RetryMaxElapsedMs int `mapstructure:"retry_max_elapsed_ms"`
}

func (c HTTPClient) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c HTTPClient) RetryMaxElapsed() time.Duration {
	return time.Duration(c.RetryMaxElapsedMs) * time.Millisecond
}

type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Rates struct {
	TTLSeconds   int      `mapstructure:"ttl_seconds"`
	BaseCurrency string   `mapstructure:"base_currency"`
	Sources      []string `mapstructure:"sources"`
}

func (r Rates) TTL() time.Duration {
	return time.Duration(r.TTLSeconds) * time.Second
}

type CoinGecko struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	// code -> coingecko id; viper lowercases map keys, so codes are uppercased by the caller
	CryptoIDs map[string]string `mapstructure:"crypto_ids"`
}

type ExchangeRateAPI struct {
	BaseURL        string   `mapstructure:"base_url"`
	APIKey         string   `mapstructure:"api_key"`
	FiatCurrencies []string `mapstructure:"fiat_currencies"`
}

type Storage struct {
	Driver      string `mapstructure:"driver"`
	DataDir     string `mapstructure:"data_dir"`
	RatesFile   string `mapstructure:"rates_file"`
	HistoryFile string `mapstructure:"history_file"`
}

type Redis struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type LookupCache struct {
	MaxItems int64 `mapstructure:"max_items"`
}

type AppConfig struct {
	HTTPServer      HTTPServer      `mapstructure:"http_server"`
	DbServer        DbServer        `mapstructure:"db_server"`
	HTTPClient      HTTPClient      `mapstructure:"http_client"`
	Logging         Logging         `mapstructure:"logging"`
	Rates           Rates           `mapstructure:"rates"`
	CoinGecko       CoinGecko       `mapstructure:"coingecko"`
	ExchangeRateAPI ExchangeRateAPI `mapstructure:"exchange_rate_api"`
	Storage         Storage         `mapstructure:"storage"`
	Redis           Redis           `mapstructure:"redis"`
	LookupCache     LookupCache     `mapstructure:"lookup_cache"`
}

// Load reads .env (if present), then the yaml file at path (if present), then env overrides.
// An empty path means "config.yaml" in the working directory.
func Load(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	if path == "" {
		path = "config.yaml"
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	setDefaults(v)
	bindEnv(v)

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_server.port", "8080")
	v.SetDefault("db_server.max_conns", 10)
	v.SetDefault("http_client.timeout_seconds", 10)
	v.SetDefault("http_client.retry_max_elapsed_ms", 3000)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("rates.ttl_seconds", 300)
	v.SetDefault("rates.base_currency", "USD")
	v.SetDefault("rates.sources", []string{SourceCoinGecko, SourceExchangeRate})
	v.SetDefault("coingecko.base_url", "https://api.coingecko.com/api/v3/simple/price")
	v.SetDefault("coingecko.crypto_ids", map[string]string{"BTC": "bitcoin", "ETH": "ethereum", "SOL": "solana"})
	v.SetDefault("exchange_rate_api.base_url", "https://v6.exchangerate-api.com/v6")
	v.SetDefault("exchange_rate_api.fiat_currencies", []string{"EUR", "GBP", "RUB"})
	v.SetDefault("storage.driver", StorageFile)
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("storage.rates_file", "rates.json")
	v.SetDefault("storage.history_file", "exchange_rates.json")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "ratehub")
	v.SetDefault("lookup_cache.max_items", 1024)
}

func bindEnv(v *viper.Viper) {
	// http
	_ = v.BindEnv("http_server.port", "HTTP_PORT")
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")
	_ = v.BindEnv("http_client.retry_max_elapsed_ms", "HTTP_CLIENT_RETRY_MAX_ELAPSED_MS")

	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")

	// rates and sources
	_ = v.BindEnv("rates.ttl_seconds", "RATES_TTL_SECONDS")
	_ = v.BindEnv("rates.base_currency", "BASE_CURRENCY")
	_ = v.BindEnv("rates.sources", "RATES_SOURCES")
	_ = v.BindEnv("coingecko.base_url", "COINGECKO_URL")
	_ = v.BindEnv("coingecko.api_key", "COINGECKO_API_KEY")
	_ = v.BindEnv("exchange_rate_api.base_url", "EXCHANGERATE_API_URL")
	_ = v.BindEnv("exchange_rate_api.api_key", "EXCHANGERATE_API_KEY")

	// storage
	_ = v.BindEnv("storage.driver", "STORAGE_DRIVER")
	_ = v.BindEnv("storage.data_dir", "DATA_DIR")

	// db server env vars
	_ = v.BindEnv("db_server.host", "DB_HOST")
	_ = v.BindEnv("db_server.port", "DB_PORT")
	_ = v.BindEnv("db_server.user", "DB_USER")
	_ = v.BindEnv("db_server.pass", "DB_PASS")
	_ = v.BindEnv("db_server.name", "DB_NAME")
	_ = v.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")
}

// Validate reports every problem at once.
func (c *AppConfig) Validate() error {
	var errs []error

	if c.HTTPServer.Port == "" {
		errs = append(errs, errors.New("http_server.port is required"))
	}
	if c.Rates.TTLSeconds <= 0 {
		errs = append(errs, fmt.Errorf("rates.ttl_seconds must be positive, got %d", c.Rates.TTLSeconds))
	}
	if strings.TrimSpace(c.Rates.BaseCurrency) == "" {
		errs = append(errs, errors.New("rates.base_currency is required"))
	}
	if len(c.Rates.Sources) == 0 {
		errs = append(errs, errors.New("rates.sources must name at least one source"))
	}
	for _, name := range c.Rates.Sources {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case SourceCoinGecko:
			if c.CoinGecko.BaseURL == "" {
				errs = append(errs, errors.New("coingecko.base_url is required"))
			}
			if len(c.CoinGecko.CryptoIDs) == 0 {
				errs = append(errs, errors.New("coingecko.crypto_ids must not be empty"))
			}
		case SourceExchangeRate:
			if c.ExchangeRateAPI.BaseURL == "" {
				errs = append(errs, errors.New("exchange_rate_api.base_url is required"))
			}
			if c.ExchangeRateAPI.APIKey == "" {
				errs = append(errs, errors.New("exchange rate api key is required"))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown rate source %q", name))
		}
	}

	if !slices.Contains([]string{StorageFile, StoragePostgres, StorageRedis}, c.Storage.Driver) {
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	if c.Storage.Driver == StorageFile && c.Storage.DataDir == "" {
		errs = append(errs, errors.New("storage.data_dir is required for the file driver"))
	}
	if c.Storage.Driver == StoragePostgres && (c.DbServer.Host == "" || c.DbServer.Name == "") {
		errs = append(errs, errors.New("db_server.host and db_server.name are required for the postgres driver"))
	}
	if c.Storage.Driver == StorageRedis && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required for the redis driver"))
	}

	return errors.Join(errs...)
}
