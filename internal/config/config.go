// Package config collects the runtime configuration for the API server.
// Flags take precedence; each falls back to an environment variable.
package config

import (
	"errors"
	"flag"
	"os"
)

// Config is the API server configuration.
type Config struct {
	Port           string
	TableName      string
	StoreBackend   string // "dynamodb" or "memory"
	ReceiptsBucket string
	RedisAddr      string
	JWTSecret      string
}

// Load parses flags and environment variables. The JWT secret is the only
// hard requirement; everything else degrades to a reduced feature set.
func Load() (*Config, error) {
	var (
		port    = flag.String("port", envOr("PORT", "8080"), "HTTP server port (or set PORT env)")
		table   = flag.String("table", envOr("DYNAMODB_TABLE", "ExpenseTracker"), "DynamoDB table name (or set DYNAMODB_TABLE env)")
		backend = flag.String("store", envOr("STORE_BACKEND", "dynamodb"), `store backend: "dynamodb" or "memory" (or set STORE_BACKEND env)`)
		bucket  = flag.String("bucket", os.Getenv("MEDIA_BUCKET"), "GCS bucket for receipts and profile pictures (or set MEDIA_BUCKET env)")
		redis   = flag.String("redis", os.Getenv("REDIS_ADDR"), "Redis address for the category cache (or set REDIS_ADDR env)")
	)
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}
	if *backend != "dynamodb" && *backend != "memory" {
		return nil, errors.New(`store backend must be "dynamodb" or "memory"`)
	}

	return &Config{
		Port:           *port,
		TableName:      *table,
		StoreBackend:   *backend,
		ReceiptsBucket: *bucket,
		RedisAddr:      *redis,
		JWTSecret:      secret,
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
