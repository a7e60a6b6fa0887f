package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Config holds the environment defaults of every command. Flags override it.
type Config struct {
	DB        string
	Algorithm string        `validate:"oneof=ilp greedy annealing genetic"`
	TimeLimit time.Duration `validate:"gte=0"`
	LogLevel  string        `validate:"oneof=debug info warn error"`
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// LoadConfig reads TRANSFEROPT_* variables.
func LoadConfig() (Config, error) {
	limit, err := time.ParseDuration(get("TRANSFEROPT_TIME_LIMIT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("TRANSFEROPT_TIME_LIMIT: %w", err)
	}
	cfg := Config{
		DB:        get("TRANSFEROPT_DB", ""),
		Algorithm: get("TRANSFEROPT_ALGO", "ilp"),
		TimeLimit: limit,
		LogLevel:  get("TRANSFEROPT_LOG_LEVEL", "info"),
	}

	return cfg, cfg.Validate()
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the algorithm name, log level and time limit.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// newLogger builds a production JSON logger on stderr, or a development
// console logger at debug level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	if lvl.Level() == zap.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl

	return cfg.Build()
}
