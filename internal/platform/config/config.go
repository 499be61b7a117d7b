// Copyright (c) 2026 Satori HQ. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the NFT series registry API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis): event stream and receiver directory
	RedisURL string `env:"REDIS_URL,required"`

	// Identity verification: public key of the external token issuer
	JWTPubKeyPath string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Registry identity, reported by the contract-level metadata endpoint
	RegistryOwner   string `env:"REGISTRY_OWNER,required"`
	RegistryName    string `env:"REGISTRY_NAME"   envDefault:"Satori Series Registry"`
	RegistrySymbol  string `env:"REGISTRY_SYMBOL" envDefault:"SATORI"`
	RegistryIcon    string `env:"REGISTRY_ICON"`
	RegistryBaseURI string `env:"REGISTRY_BASE_URI"`

	// StorageByteCost overrides the deposit units charged per byte of new state.
	// Zero selects the built-in default.
	StorageByteCost uint64 `env:"STORAGE_BYTE_COST" envDefault:"0"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
