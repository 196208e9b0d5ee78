package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// config holds the settings read from the environment.
type config struct {
	Addr         string
	WaveBaseURL  string
	DatabasePath string
	Timeout      time.Duration
	LogLevel     log.Level
	LogJSON      bool
}

// loadConfig reads settings from the environment. Values from a .env file in
// the working directory are loaded first without overriding variables that
// are already set.
func loadConfig(getenv func(string) string) (config, error) {
	cfg := config{
		Addr:         getenvDefault(getenv, "ADDR", ":4000"),
		WaveBaseURL:  getenv("WAVE_BASE_URL"),
		DatabasePath: getenvDefault(getenv, "DATABASE_PATH", "wave.db"),
		Timeout:      10 * time.Second,
		LogLevel:     log.InfoLevel,
	}
	if v := getenv("WAVE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return config{}, fmt.Errorf("invalid WAVE_TIMEOUT %q", v)
		}
		cfg.Timeout = d
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		lvl, err := log.ParseLevel(v)
		if err != nil {
			return config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = lvl
	}
	switch f := strings.ToLower(getenv("LOG_FORMAT")); f {
	case "", "text":
	case "json":
		cfg.LogJSON = true
	default:
		return config{}, fmt.Errorf("invalid LOG_FORMAT %q", f)
	}
	return cfg, nil
}

// loadDotEnv loads .env when present. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func getenvDefault(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}
