package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the loaded configuration
type Config struct {
	Addr            string
	Env             string
	PlatformURL     string
	PlatformAnonKey string
	RequestTimeout  time.Duration
	RedisURL        string
	SessionTTL      time.Duration

	StorageEndpoint  string
	StorageRegion    string
	StorageAccessKey string
	StorageSecretKey string
	StoragePublicURL string
}

// Load loads configuration from the .env file and the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return Config{
		Addr:            getEnv("STOREFRONT_ADDR", ":8000"),
		Env:             getEnv("APP_ENV", "development"),
		PlatformURL:     getEnv("PLATFORM_URL", ""),
		PlatformAnonKey: getEnv("PLATFORM_ANON_KEY", ""),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 10*time.Second),
		RedisURL:        os.Getenv("REDIS_URL"),
		SessionTTL:      getDuration("SESSION_TTL", 7*24*time.Hour),

		StorageEndpoint:  os.Getenv("STORAGE_ENDPOINT"),
		StorageRegion:    getEnv("STORAGE_REGION", "us-east-1"),
		StorageAccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
		StorageSecretKey: os.Getenv("STORAGE_SECRET_KEY"),
		StoragePublicURL: os.Getenv("STORAGE_PUBLIC_URL"),
	}
}

// Helper to get an environment variable or return a default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	if fallback == "" {
		log.Fatalf("FATAL: Environment variable %s is not set.", key)
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("invalid %s=%q, using default %s", key, value, fallback)
		return fallback
	}
	return d
}
