package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start. Values come from
// flags, with environment variables (optionally via a .env file) as
// defaults.
type Config struct {
	// Endpoint is the SurrealDB connection URL, e.g. ws://localhost:8000
	// or memory.
	Endpoint  string
	Namespace string
	Database  string
	User      string
	Pass      string

	// BindAddress selects the HTTP transport when set; empty means
	// stdio.
	BindAddress string

	RateLimitRPS   float64
	RateLimitBurst int
}

func LoadConfig(args []string) (*Config, error) {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	cfg := &Config{}
	fs := flag.NewFlagSet("surrealmcp", flag.ContinueOnError)
	fs.StringVar(&cfg.Endpoint, "endpoint", envOr("SURREALDB_URL", "ws://localhost:8000"), "SurrealDB endpoint URL")
	fs.StringVar(&cfg.Namespace, "ns", envOr("SURREALDB_NS", "test"), "namespace to use")
	fs.StringVar(&cfg.Database, "db", envOr("SURREALDB_DB", "test"), "database to use")
	fs.StringVar(&cfg.User, "user", envOr("SURREALDB_USER", ""), "authentication username")
	fs.StringVar(&cfg.Pass, "pass", envOr("SURREALDB_PASS", ""), "authentication password")
	fs.StringVar(&cfg.BindAddress, "bind-address", envOr("SURREALMCP_BIND_ADDRESS", ""), "HTTP listen address; empty serves over stdio")
	fs.Float64Var(&cfg.RateLimitRPS, "rate-limit-rps", envFloatOr("SURREALMCP_RATE_LIMIT_RPS", 10), "rate limit refill rate per identity (requests/second)")
	fs.IntVar(&cfg.RateLimitBurst, "rate-limit-burst", envIntOr("SURREALMCP_RATE_LIMIT_BURST", 50), "rate limit burst capacity per identity")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint must not be empty")
	}
	// A limiter that can never admit anything is a configuration fault,
	// fatal at startup rather than per request.
	if cfg.RateLimitRPS <= 0 {
		return nil, fmt.Errorf("rate-limit-rps must be positive, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("rate-limit-burst must be positive, got %d", cfg.RateLimitBurst)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
