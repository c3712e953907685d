// Package config loads benchmark configuration from environment variables.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config contains benchmark runner configuration. The passphrase is a shared
// secret and is never transmitted to the store; the salt is shared but not
// secret. Both must match whatever was used when the index was built, along
// with the KDF profile, or lookups silently return empty.
type Config struct {
	LogLevel int    `env:"LOG_LEVEL" envDefault:"0"`
	Backend  string `env:"STORE_BACKEND" envDefault:"memory"` // memory or dynamo

	Bench  Bench  `envPrefix:"BENCH_"`
	Dynamo Dynamo `envPrefix:"DYNAMO_"`
	Cache  Cache  `envPrefix:"MINIO_"`
}

// Bench contains the key-derivation and policy parameters.
type Bench struct {
	Passphrase     string `env:"PASSPHRASE"`
	Salt           string `env:"SALT"`
	KDFProfile     string `env:"KDF_PROFILE" envDefault:"default"` // default or pq
	DatasetID      string `env:"DATASET_ID" envDefault:"persons"`
	CacheCap       int    `env:"CACHE_CAP" envDefault:"500"`
	MaxResultFetch int    `env:"MAX_RESULT_FETCH" envDefault:"50"`
	BatchSize      int    `env:"BATCH_SIZE" envDefault:"10"`
	ScanPageSize   int    `env:"SCAN_PAGE_SIZE" envDefault:"100"`
}

// Dynamo contains DynamoDB store parameters.
type Dynamo struct {
	Table    string `env:"TABLE" envDefault:"blindbench"`
	Region   string `env:"REGION" envDefault:"us-east-1"`
	Endpoint string `env:"ENDPOINT"` // set for DynamoDB Local
}

// Cache contains object-storage parameters for the persistent client cache.
type Cache struct {
	Endpoint  string `env:"ENDPOINT"` // empty disables the persistent cache
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"blindbench-cache"`
	Prefix    string `env:"PREFIX" envDefault:"datasets"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// New loads configuration from environment variables.
func New() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the parts every command needs. Key-material problems are
// fatal before any store access.
func (c *Config) Validate() error {
	if c.Bench.Passphrase == "" {
		return errors.New("config: BENCH_PASSPHRASE is required")
	}
	if c.Bench.Salt == "" {
		return errors.New("config: BENCH_SALT is required")
	}
	if c.Backend != "memory" && c.Backend != "dynamo" {
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.Backend)
	}
	return nil
}
