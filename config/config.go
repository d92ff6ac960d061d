package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	// Gateway
	APIBaseURL     string
	SessionToken   string
	RequestTimeout time.Duration
	GatewayRPS     float64
	GatewayBurst   int
	// Checkout rules
	ShippingCost          float64
	FreeShippingThreshold float64
	// Image proxy
	ImageProxyURL string
	ImageCacheTTL time.Duration
	// Favorites
	DefaultSortType string
}

func LoadConfig() *Config {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// 2. Default fallback: Try loading .env (standard local dev)
		// We don't error here because in CI/prod envs, .env might not exist,
		// and we rely on system env vars.
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		APIBaseURL:     getEnv("API_BASE_URL", ""),
		SessionToken:   getEnv("SESSION_TOKEN", ""),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", 15*time.Second),
		GatewayRPS:     getFloat64Env("GATEWAY_RPS", 20),
		GatewayBurst:   getIntEnv("GATEWAY_BURST", 40),

		// Checkout defaults: flat 49.99 shipping, waived strictly above 50
		ShippingCost:          getFloat64Env("SHIPPING_COST", 49.99),
		FreeShippingThreshold: getFloat64Env("FREE_SHIPPING_THRESHOLD", 50),

		ImageProxyURL: getEnv("IMAGE_PROXY_URL", ""),
		ImageCacheTTL: getDurationEnv("IMAGE_CACHE_TTL", 30*time.Minute),

		DefaultSortType: getEnv("DEFAULT_SORT_TYPE", "date-desc"),
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	if c.APIBaseURL == "" {
		log.Fatal("CRITICAL: API_BASE_URL environment variable is required")
	}
	if c.ImageProxyURL == "" {
		// Image proxy shares the backend host unless pointed elsewhere
		c.ImageProxyURL = c.APIBaseURL
	}
	if c.SessionToken == "" {
		log.Println("WARNING: No SESSION_TOKEN set. Gateway calls will be anonymous.")
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}
