package myconfig

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort            = "8080"
	defaultCartTTL         = 24 * time.Hour
	defaultCatalogCacheTTL = 5 * time.Minute
)

type Config struct {
	Port               string
	AdminAPIKey        string
	RedisAddr          string
	RedisPassword      string
	CartTTL            time.Duration
	StripeAPIKey       string
	CatalogCacheTTL    time.Duration
	SeedCatalog        bool
	GoogleCloudProject string
	LocationID         string
	QueueName          string
}

func (c Config) RunsInCloud() bool {
	return c.GoogleCloudProject != ""
}

// Load reads .env outside production and then the environment
func Load() (Config, error) {
	if os.Getenv("ENV") != "production" {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			log.Printf("Ignoring .env: %s", err)
		}
	}

	cartTTL, err := durationFromEnv("CART_TTL", defaultCartTTL)
	if err != nil {
		return Config{}, err
	}
	catalogCacheTTL, err := durationFromEnv("CATALOG_CACHE_TTL", defaultCatalogCacheTTL)
	if err != nil {
		return Config{}, err
	}
	seedCatalog, err := boolFromEnv("SEED_CATALOG", false)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Port:               stringFromEnv("PORT", defaultPort),
		AdminAPIKey:        os.Getenv("ADMIN_API_KEY"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		CartTTL:            cartTTL,
		StripeAPIKey:       os.Getenv("STRIPE_API_KEY"),
		CatalogCacheTTL:    catalogCacheTTL,
		SeedCatalog:        seedCatalog,
		GoogleCloudProject: os.Getenv("GOOGLE_CLOUD_PROJECT"),
		LocationID:         os.Getenv("LOCATION_ID"),
		QueueName:          stringFromEnv("QUEUE_NAME", "default"),
	}, nil
}

func stringFromEnv(name string, defaultValue string) string {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue
	}
	return value
}

func durationFromEnv(name string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration in %s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration in %s must be positive", name)
	}
	return d, nil
}

func boolFromEnv(name string, defaultValue bool) (bool, error) {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean in %s: %w", name, err)
	}
	return b, nil
}
