//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for martctl.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for martctl.
type Config struct {
	// Source is the operational (OLTP) PostgreSQL connection string.
	Source string `mapstructure:"source"`

	// Target is the analytical (OLAP) PostgreSQL connection string.
	Target string `mapstructure:"target"`

	// Mart is the data mart to build (courier, clinical).
	Mart string `mapstructure:"mart"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Locale selects weekday/month naming for calendar dimensions
	// (english, spanish).
	Locale string `mapstructure:"locale"`

	// Refresh holds configuration for the refresh subcommand.
	Refresh RefreshConfig `mapstructure:"refresh"`

	// Seed holds configuration for the seed subcommand.
	Seed SeedConfig `mapstructure:"seed"`
}

// RefreshConfig holds configuration for a warehouse refresh run.
type RefreshConfig struct {
	// LoadDimensions rebuilds and reloads every dimension table before
	// the fact pass. Disable to refresh facts against dimensions already
	// in the target.
	LoadDimensions bool `mapstructure:"load_dimensions"`

	// ApplyCleaning drops fact rows with null dimension keys or null
	// measures before loading.
	ApplyCleaning bool `mapstructure:"apply_cleaning"`

	// ChurnMonths is the number of 30-day months without a payment after
	// which a member counts as churned (clinical mart).
	ChurnMonths int `mapstructure:"churn_months"`
}

// SeedConfig holds configuration for demo source-database seeding.
type SeedConfig struct {
	// Services is the number of courier service events to generate.
	Services int `mapstructure:"services"`

	// Members is the number of insured members to generate (clinical mart).
	Members int `mapstructure:"members"`

	// Seed fixes the random seed for reproducible data (0 = random).
	Seed uint64 `mapstructure:"seed"`

	// DropExisting drops the demo schema before seeding.
	DropExisting bool `mapstructure:"drop_existing"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Locale:   "english",
		Refresh: RefreshConfig{
			LoadDimensions: true,
			ApplyCleaning:  true,
			ChurnMonths:    2,
		},
		Seed: SeedConfig{
			Services: 5000,
			Members:  2000,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./martctl.yaml
// 3. ~/.config/martctl/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("martctl")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "martctl"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Mart == "" {
		return fmt.Errorf("mart is required")
	}
	if c.Locale != "english" && c.Locale != "spanish" {
		return fmt.Errorf("locale must be 'english' or 'spanish'")
	}
	return nil
}

// ValidateRefresh checks configuration required for the refresh command.
func (c *Config) ValidateRefresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Source == "" {
		return fmt.Errorf("source connection string is required")
	}
	if c.Target == "" {
		return fmt.Errorf("target connection string is required")
	}
	if c.Refresh.ChurnMonths < 1 {
		return fmt.Errorf("churn_months must be at least 1")
	}
	return nil
}

// ValidateSeed checks configuration required for the seed command.
func (c *Config) ValidateSeed() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Source == "" {
		return fmt.Errorf("source connection string is required")
	}
	if c.Seed.Services < 1 {
		return fmt.Errorf("services must be at least 1")
	}
	if c.Seed.Members < 1 {
		return fmt.Errorf("members must be at least 1")
	}
	return nil
}
