package config

import (
	"os"
	"strconv"
)

type Config struct {
	Addr    string        `json:"addr"`
	History HistoryConfig `json:"history"`
}

type HistoryConfig struct {
	StoragePath   string `json:"storage_path"`
	RetentionDays int    `json:"retention_days"`
}

func Load() (*Config, error) {
	config := &Config{
		Addr: getEnvOrDefault("LARDER_ADDR", ":8080"),
		History: HistoryConfig{
			StoragePath:   getEnvOrDefault("LARDER_HISTORY_PATH", "./data/history.json"),
			RetentionDays: getEnvIntOrDefault("LARDER_HISTORY_RETENTION_DAYS", 14),
		},
	}

	return config, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
