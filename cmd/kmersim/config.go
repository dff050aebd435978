package main

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/hupe1980/kmersim/point"
)

// envPrefix prefixes every environment variable, e.g. KMERSIM_K.
const envPrefix = "KMERSIM"

// Config validation errors
var (
	ErrInvalidLogLevel    = errors.New("log_level must be debug, info, warn, or error")
	ErrInvalidLogFormat   = errors.New("log_format must be 'text' or 'json'")
	ErrInvalidK           = fmt.Errorf("k must be between 1 and %d", point.MaxK)
	ErrNoMetrics          = errors.New("metrics cannot be empty")
	ErrInvalidSamples     = errors.New("samples must not be negative")
	ErrInvalidWorkers     = errors.New("workers must not be negative")
	ErrInvalidMemoryLimit = errors.New("memory_limit must not be negative")
	ErrInvalidAlignRate   = errors.New("alignments_per_sec must not be negative")
	ErrNoMinioEndpoint    = errors.New("minio_endpoint is required for minio:// locations")
)

// Config is the CLI configuration. Values come from the environment (and an
// optional .env file) and are overridden by flags.
type Config struct {
	LogLevel         string   `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat        string   `envconfig:"LOG_FORMAT" default:"text"`
	K                int      `envconfig:"K" default:"4"`
	Metrics          []string `envconfig:"METRICS" default:"euclidean,jaccard"`
	Composition      string   `envconfig:"COMPOSITION" default:"product2"`
	Samples          int      `envconfig:"SAMPLES" default:"1000"`
	Seed             int64    `envconfig:"SEED" default:"1"`
	Workers          int      `envconfig:"WORKERS" default:"0"` // 0 means GOMAXPROCS
	Pseudocount      uint64   `envconfig:"PSEUDOCOUNT" default:"1"`
	MemoryLimit      int64    `envconfig:"MEMORY_LIMIT" default:"0"` // cache bytes, 0 means unlimited
	AlignmentsPerSec float64  `envconfig:"ALIGNMENTS_PER_SEC" default:"0"`
	MetricsAddr      string   `envconfig:"METRICS_ADDR"`

	// Profile storage for s3:// and minio:// locations
	S3Region       string `envconfig:"S3_REGION"`
	S3Endpoint     string `envconfig:"S3_ENDPOINT"`
	MinioEndpoint  string `envconfig:"MINIO_ENDPOINT"`
	MinioAccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `envconfig:"MINIO_SECRET_KEY"`
	MinioSecure    bool   `envconfig:"MINIO_SECURE" default:"true"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		LogLevel:    "info",
		LogFormat:   "text",
		K:           4,
		Metrics:     []string{"euclidean", "jaccard"},
		Composition: "product2",
		Samples:     1000,
		Seed:        1,
		Pseudocount: 1,
		MinioSecure: true,
	}
}

// LoadConfig reads envFile, if it exists, and then the environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ValidateConfig validates the configuration and returns an error if invalid
func ValidateConfig(cfg *Config) error {
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return ErrInvalidLogFormat
	}
	if cfg.K < 1 || cfg.K > point.MaxK {
		return ErrInvalidK
	}
	if len(cfg.Metrics) == 0 {
		return ErrNoMetrics
	}
	if cfg.Samples < 0 {
		return ErrInvalidSamples
	}
	if cfg.Workers < 0 {
		return ErrInvalidWorkers
	}
	if cfg.MemoryLimit < 0 {
		return ErrInvalidMemoryLimit
	}
	if cfg.AlignmentsPerSec < 0 {
		return ErrInvalidAlignRate
	}
	return nil
}

// EffectiveWorkers resolves Workers = 0 to GOMAXPROCS.
func (c *Config) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}
