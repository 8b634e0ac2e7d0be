package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration.
type Config struct {
	HAURL           string
	HAToken         string
	Port            string
	ElectricityRate float64
	CurrencySymbol  string
	CacheTTL        time.Duration
	HistoryCacheTTL time.Duration
	MeterKeyword    string
	// PrimarySensor pins the sensor used for the history view. When empty or
	// not present in the snapshot, the first power sensor in snapshot order
	// is used, which makes the view depend on upstream ordering.
	PrimarySensor   string
	RefreshInterval int
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, relying on system environment variables")
	}

	cfg := Config{
		HAURL:           os.Getenv("HA_URL"),
		HAToken:         os.Getenv("HA_TOKEN"),
		Port:            getEnv("PORT", "8000"),
		ElectricityRate: getEnvFloat("ELECTRICITY_RATE", 0.12),
		CurrencySymbol:  getEnv("CURRENCY_SYMBOL", "$"),
		CacheTTL:        time.Duration(getEnvInt("CACHE_TTL", 60)) * time.Second,
		HistoryCacheTTL: time.Duration(getEnvInt("HISTORY_CACHE_TTL", 300)) * time.Second,
		MeterKeyword:    getEnv("METER_KEYWORD", "bitshake"),
		PrimarySensor:   os.Getenv("PRIMARY_SENSOR"),
		RefreshInterval: getEnvInt("REFRESH_INTERVAL", 30),
	}
	if cfg.HAURL == "" || cfg.HAToken == "" {
		return Config{}, fmt.Errorf("hub configuration is incomplete. Please set HA_URL and HA_TOKEN environment variables")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using default %d", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using default %g", key, raw, defaultValue)
		return defaultValue
	}
	return value
}
