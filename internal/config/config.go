// Package config holds runtime configuration: file-backed with
// environment overrides, hot-reloaded through the Manager.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectDir   string `json:"project_dir"`
	ResultsDir   string `json:"results_dir"`
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	BrokerName        string  `json:"broker_name"`
	BrokerDescription string  `json:"broker_description"`
	InitialBalance    float64 `json:"initial_balance"`
	Coordinator       string  `json:"coordinator"`

	GatewayURL string `json:"gateway_url"`

	CacheEnabled bool `json:"cache_enabled"`
	Debug        bool `json:"debug"`

	// Longport API Configuration
	LongportAppKey      string `json:"longport_app_key"`
	LongportAppSecret   string `json:"longport_app_secret"`
	LongportAccessToken string `json:"longport_access_token"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()
	cfg := DefaultConfigWithRoot(currentDir)

	// Load environment variables from .env file
	_ = godotenv.Load()
	cfg.loadFromEnv()
	return cfg
}

func DefaultConfigWithRoot(root string) *Config {
	return &Config{
		ProjectDir:   root,
		ResultsDir:   filepath.Join(root, "results"),
		DataDir:      filepath.Join(root, "data"),
		DataCacheDir: filepath.Join(root, "data", "cache"),

		BrokerName:        "Global Investment Bank",
		BrokerDescription: "full-service investment bank and brokerage",
		InitialBalance:    1_000_000_000,
		Coordinator:       "executive",

		CacheEnabled: true,
		Debug:        false,
	}
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("RESULTS_DIR"); val != "" {
		c.ResultsDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}

	if val := os.Getenv("BROKER_NAME"); val != "" {
		c.BrokerName = val
	}
	if val := os.Getenv("BROKER_COORDINATOR"); val != "" {
		c.Coordinator = val
	}
	if val := os.Getenv("BROKER_INITIAL_BALANCE"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.InitialBalance = v
		}
	}
	if val := os.Getenv("GATEWAY_URL"); val != "" {
		c.GatewayURL = val
	}

	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if cache, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = cache
		}
	}
	if val := os.Getenv("BROKERGO_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}

	if val := os.Getenv("LONGPORT_APP_KEY"); val != "" {
		c.LongportAppKey = val
	}
	if val := os.Getenv("LONGPORT_APP_SECRET"); val != "" {
		c.LongportAppSecret = val
	}
	if val := os.Getenv("LONGPORT_ACCESS_TOKEN"); val != "" {
		c.LongportAccessToken = val
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.BrokerName) == "" {
		return fmt.Errorf("broker_name cannot be empty")
	}
	if c.InitialBalance < 0 {
		return fmt.Errorf("initial_balance cannot be negative")
	}
	if strings.TrimSpace(c.Coordinator) == "" {
		return fmt.Errorf("coordinator cannot be empty")
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ProjectDir, c.ResultsDir, c.DataDir, c.DataCacheDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
