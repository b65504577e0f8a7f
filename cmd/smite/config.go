package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kjanat/smite-client/pkg/api"
	"gopkg.in/yaml.v3"
)

// Environment variables read by the CLI.
const (
	envDevID   = "SMITE_DEV_ID"
	envAuthKey = "SMITE_AUTH_KEY"
	envURL     = "SMITE_URL"
	envConfig  = "SMITE_CONFIG"
)

// fileConfig is the layout of the YAML config file:
//
//	developer_id: "1004"
//	auth_key: 23DDF7C4A8B24EB19A3A8A8FF8B3C3E6
//	base_url: https://api.smitegame.com/smiteapi.svc
//	timeout: 30s
//	max_retries: 2
type fileConfig struct {
	DeveloperID string        `yaml:"developer_id"`
	AuthKey     string        `yaml:"auth_key"`
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
}

// settings are the values the client is built from after merging flags,
// environment and config file.
type settings struct {
	DeveloperID string
	AuthKey     string
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
}

// loadConfig reads the YAML config at path. An empty path yields an empty
// config.
func loadConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// getConfigPath returns the config file path from flags or environment
func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return os.Getenv(envConfig)
}

// loadSettings merges the sources with precedence flag > env > file > default.
func loadSettings() (*settings, error) {
	cfg, err := loadConfig(getConfigPath())
	if err != nil {
		return nil, err
	}

	s := &settings{
		DeveloperID: firstNonEmpty(devID, os.Getenv(envDevID), cfg.DeveloperID),
		AuthKey:     firstNonEmpty(authKey, os.Getenv(envAuthKey), cfg.AuthKey),
		BaseURL:     firstNonEmpty(apiURL, os.Getenv(envURL), cfg.BaseURL, api.DefaultBaseURL),
		Timeout:     timeout,
		MaxRetries:  maxRetries,
	}

	flags := rootCmd.PersistentFlags()
	if !flags.Changed("timeout") && cfg.Timeout > 0 {
		s.Timeout = cfg.Timeout
	}
	if !flags.Changed("retries") && cfg.MaxRetries > 0 {
		s.MaxRetries = cfg.MaxRetries
	}

	if s.DeveloperID == "" {
		return nil, fmt.Errorf("developer id is required (--dev-id, %s or developer_id in config)", envDevID)
	}
	if s.AuthKey == "" {
		return nil, fmt.Errorf("auth key is required (--auth-key, %s or auth_key in config)", envAuthKey)
	}
	return s, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
