// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the HTTP server and the cart core.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	CatalogPath     string
	ActionBuffer    int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults. An empty
// CATALOG_PATH selects the built-in demo catalog.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),
		CatalogPath:     getenv("CATALOG_PATH", ""),
		ActionBuffer:    atoienv("ACTION_BUFFER", 64),
	}
}
