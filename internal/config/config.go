package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Server struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		LogLevel     string
	}

	Assets struct {
		RegistryURL  string
		ReleaseTag   string
		LocalDataDir string
		SiteRegistry string
		FetchTimeout time.Duration
	}

	Forecast struct {
		HorizonDays     int
		SampleInterval  time.Duration
		RefreshCronSpec string
	}

	CircuitBreaker struct {
		Threshold int
		Timeout   time.Duration
	}

	Retry struct {
		MaxRetries int
		Delay      time.Duration
		Multiplier float64
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	// Server configuration
	cfg.Server.Port = getEnv("FIBER_PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("FIBER_READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("FIBER_WRITE_TIMEOUT", "10s"))
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	// Asset host configuration
	cfg.Assets.RegistryURL = getEnv("RELEASE_REGISTRY_URL", "https://api.github.com/repos/safecoastpro/twl-data")
	cfg.Assets.ReleaseTag = getEnv("RELEASE_TAG", "data-latest")
	cfg.Assets.LocalDataDir = getEnv("LOCAL_DATA_DIR", "data")
	cfg.Assets.SiteRegistry = getEnv("SITE_REGISTRY_FILE", "sites_config.json")
	cfg.Assets.FetchTimeout = parseDuration(getEnv("FETCH_TIMEOUT", "30s"))

	// Forecast configuration
	cfg.Forecast.HorizonDays = parseInt(getEnv("FORECAST_HORIZON_DAYS", "7"))
	cfg.Forecast.SampleInterval = parseDuration(getEnv("FORECAST_SAMPLE_INTERVAL", "10m"))
	cfg.Forecast.RefreshCronSpec = getEnv("REFRESH_CRON", "@every 6h")

	// Circuit breaker configuration
	cfg.CircuitBreaker.Threshold = parseInt(getEnv("CIRCUIT_BREAKER_THRESHOLD", "3"))
	cfg.CircuitBreaker.Timeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", "30s"))

	// Retry configuration
	cfg.Retry.MaxRetries = parseInt(getEnv("MAX_RETRIES", "3"))
	cfg.Retry.Delay = parseDuration(getEnv("RETRY_DELAY", "1s"))
	cfg.Retry.Multiplier = parseFloat(getEnv("RETRY_MULTIPLIER", "2"))

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}

func parseFloat(value string) float64 {
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		zap.L().Warn("Failed to parse float", zap.String("value", value), zap.Error(err))
		return 0
	}
	return floatValue
}
