// Package config loads and validates application configuration from
// environment variables. A .env file in the working directory is read first
// when present, so local development needs no exported shell variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// JWTSecret signs access tokens. Required.
	JWTSecret string

	// TokenTTL is how long issued access tokens stay valid.
	// Set TOKEN_TTL_MIN (minutes); defaults to 60.
	TokenTTL time.Duration

	// BcryptCost is the work factor for password hashing. Defaults to 12.
	BcryptCost int

	// WeatherAPIKey authenticates against OpenWeatherMap. Required.
	WeatherAPIKey string

	// WeatherBaseURL is the OpenWeatherMap API root; overridable for tests.
	WeatherBaseURL string

	// GeocodeBaseURL is the Nominatim API root; overridable for tests.
	GeocodeBaseURL string

	// WeatherCacheTTL is how long forecasts are served from cache.
	// Set WEATHER_CACHE_TTL_MIN (minutes); defaults to 60.
	WeatherCacheTTL time.Duration

	// GeocodeCacheTTL is how long geocoding results are served from cache.
	// Set GEOCODE_CACHE_TTL_MIN (minutes); defaults to 1440 (24h).
	GeocodeCacheTTL time.Duration

	// MaxBodyBytes caps incoming request body sizes. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Load reads configuration from a .env file (if present) and the environment,
// returning a Config. Returns an error listing any required variables that
// are not set.
func Load() (Config, error) {
	// Missing .env is not an error; production sets real env vars.
	_ = godotenv.Load()

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSOrigins:     splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		TokenTTL:        time.Duration(getEnvInt("TOKEN_TTL_MIN", 60)) * time.Minute,
		BcryptCost:      getEnvInt("BCRYPT_COST", 12),
		WeatherBaseURL:  getEnv("WEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		GeocodeBaseURL:  getEnv("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
		WeatherCacheTTL: time.Duration(getEnvInt("WEATHER_CACHE_TTL_MIN", 60)) * time.Minute,
		GeocodeCacheTTL: time.Duration(getEnvInt("GEOCODE_CACHE_TTL_MIN", 1440)) * time.Minute,
		MaxBodyBytes:    int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	cfg.WeatherAPIKey = os.Getenv("WEATHER_API_KEY")
	if cfg.WeatherAPIKey == "" {
		missing = append(missing, "WEATHER_API_KEY")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt parses the named variable as an int, falling back on absence or
// a malformed value.
func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
