package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/question-extractor/internal/classifier"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	RedisURL     string
	CacheEnabled bool
	CacheTTL     time.Duration

	Classifier classifier.Options
	Events     EventConfig
}

// LoadConfig reads .env when present and then the process environment.
// Classifier rules come from CLASSIFIER_RULES_FILE when set, with the
// strategy and plain-text threshold overridable from the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	opts := classifier.DefaultOptions()
	if path := os.Getenv("CLASSIFIER_RULES_FILE"); path != "" {
		if opts, err = LoadClassifierRules(path); err != nil {
			return nil, err
		}
	}
	if strategy := os.Getenv("CLASSIFIER_STRATEGY"); strategy != "" {
		if opts.Strategy, err = classifier.ParseStrategy(strategy); err != nil {
			return nil, err
		}
	}
	if value := os.Getenv("CLASSIFIER_MIN_PLAIN_LENGTH"); value != "" {
		if opts.MinPlainLength, err = strconv.Atoi(value); err != nil {
			return nil, fmt.Errorf("invalid CLASSIFIER_MIN_PLAIN_LENGTH: %w", err)
		}
	}

	return &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),
		CacheEnabled: getBoolEnv("CACHE_ENABLED", true),
		CacheTTL:     cacheTTL,
		Classifier:   opts,
		Events:       LoadEventConfig(),
	}, nil
}

// LoadClassifierRules reads classifier options from a YAML file. Keys left
// out of the file keep their defaults.
func LoadClassifierRules(path string) (classifier.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return classifier.Options{}, fmt.Errorf("failed to read classifier rules: %w", err)
	}
	return ParseClassifierRules(data)
}

func ParseClassifierRules(data []byte) (classifier.Options, error) {
	opts := classifier.DefaultOptions()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return classifier.Options{}, fmt.Errorf("failed to parse classifier rules: %w", err)
	}
	strategy, err := classifier.ParseStrategy(string(opts.Strategy))
	if err != nil {
		return classifier.Options{}, err
	}
	opts.Strategy = strategy
	return opts, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
