// Package config provides application configuration loaded from
// environment variables. Every recognized option is an explicit typed
// field; unknown VARLIK_-prefixed variables are a startup error rather
// than a silent runtime lookup.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// envPrefix namespaces all application variables. Anything outside the
// prefix (PATH, HOME, ...) is ignored by the strict check.
const envPrefix = "VARLIK_"

// Config holds all application configuration. Load it once at startup.
type Config struct {
	// ServerPort is the HTTP listen port.
	ServerPort string

	// Debug enables debug logging and Gin debug mode.
	Debug bool

	// DatabaseDSN is the Postgres connection string.
	DatabaseDSN string

	// Refresh contains settings for the periodic market refresh job.
	Refresh RefreshConfig

	// Providers contains outbound market-data endpoint settings.
	Providers ProviderConfig

	// Kafka contains the optional price-snapshot publisher settings.
	// Publishing is disabled when Broker is empty.
	Kafka KafkaConfig

	// APITokens maps static bearer tokens to "user_id:role" identities.
	// Development stand-in for the external auth collaborator.
	APITokens map[string]string
}

// RefreshConfig holds settings for the periodic refresh cycle.
type RefreshConfig struct {
	// Enabled turns the background scheduler on.
	Enabled bool

	// IntervalSeconds is the tick interval. Clamped to a 30s minimum.
	IntervalSeconds int
}

// ProviderConfig holds outbound provider settings. Base URLs are
// overridable mainly for tests and self-hosted mirrors.
type ProviderConfig struct {
	TimeoutSeconds  int
	FXBaseURL       string
	FXFallbackURL   string
	CoinGeckoURL    string
}

// KafkaConfig holds Kafka producer settings.
type KafkaConfig struct {
	Broker string
	Topic  string
}

// knownKeys enumerates every recognized environment variable.
var knownKeys = map[string]bool{
	"VARLIK_SERVER_PORT":              true,
	"VARLIK_DEBUG":                    true,
	"VARLIK_DB_HOST":                  true,
	"VARLIK_DB_PORT":                  true,
	"VARLIK_DB_USER":                  true,
	"VARLIK_DB_PASSWORD":              true,
	"VARLIK_DB_NAME":                  true,
	"VARLIK_DB_SSLMODE":               true,
	"VARLIK_REFRESH_ENABLED":          true,
	"VARLIK_REFRESH_INTERVAL_SECONDS": true,
	"VARLIK_PROVIDER_TIMEOUT_SECONDS": true,
	"VARLIK_FX_BASE_URL":              true,
	"VARLIK_FX_FALLBACK_URL":          true,
	"VARLIK_COINGECKO_URL":            true,
	"VARLIK_KAFKA_BROKER":             true,
	"VARLIK_KAFKA_TOPIC":              true,
	"VARLIK_API_TOKENS":               true,
}

// Load reads configuration from the environment, attempting a .env file
// first for local development. It fails on unrecognized VARLIK_* keys.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	if err := checkUnknownKeys(os.Environ()); err != nil {
		return nil, err
	}

	interval := getEnvInt("VARLIK_REFRESH_INTERVAL_SECONDS", 300)
	if interval < 30 {
		interval = 30
	}

	tokens, err := parseAPITokens(getEnv("VARLIK_API_TOKENS", ""))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:  getEnv("VARLIK_SERVER_PORT", "8080"),
		Debug:       getEnvBool("VARLIK_DEBUG", false),
		DatabaseDSN: databaseDSN(),
		Refresh: RefreshConfig{
			Enabled:         getEnvBool("VARLIK_REFRESH_ENABLED", true),
			IntervalSeconds: interval,
		},
		Providers: ProviderConfig{
			TimeoutSeconds: getEnvInt("VARLIK_PROVIDER_TIMEOUT_SECONDS", 15),
			FXBaseURL:      getEnv("VARLIK_FX_BASE_URL", ""),
			FXFallbackURL:  getEnv("VARLIK_FX_FALLBACK_URL", ""),
			CoinGeckoURL:   getEnv("VARLIK_COINGECKO_URL", ""),
		},
		Kafka: KafkaConfig{
			Broker: getEnv("VARLIK_KAFKA_BROKER", ""),
			Topic:  getEnv("VARLIK_KAFKA_TOPIC", "varlik_market_prices"),
		},
		APITokens: tokens,
	}, nil
}

// checkUnknownKeys rejects VARLIK_-prefixed variables that are not part
// of the typed configuration.
func checkUnknownKeys(environ []string) error {
	var unknown []string
	for _, entry := range environ {
		key, _, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, envPrefix) {
			continue
		}
		if !knownKeys[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("unrecognized configuration keys: %s", strings.Join(unknown, ", "))
}

// parseAPITokens parses "token:user:role" triples separated by commas.
func parseAPITokens(raw string) (map[string]string, error) {
	tokens := make(map[string]string)
	if raw == "" {
		return tokens, nil
	}
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid VARLIK_API_TOKENS entry %q, want token:user:role", entry)
		}
		tokens[parts[0]] = parts[1] + ":" + parts[2]
	}
	return tokens, nil
}

func databaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("VARLIK_DB_HOST", "localhost"),
		getEnv("VARLIK_DB_PORT", "5432"),
		getEnv("VARLIK_DB_USER", "varlik"),
		getEnv("VARLIK_DB_PASSWORD", ""),
		getEnv("VARLIK_DB_NAME", "varlik"),
		getEnv("VARLIK_DB_SSLMODE", "disable"),
	)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
