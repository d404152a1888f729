// Package config loads the service configuration from YAML with environment
// overrides and sane defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Server struct {
		Addr string `yaml:"addr"`
		// AdminAPIKey guards the internal endpoints the game host calls
		// (PIN issuance, session revocation).
		AdminAPIKey string `yaml:"admin_api_key"`
	} `yaml:"server"`

	Web struct {
		PinExpirySeconds  int `yaml:"pin-expiry-seconds"`
		SessionExpiryDays int `yaml:"session-expiry-days"`
	} `yaml:"web"`

	SkinManagement struct {
		MaxSkins              int  `yaml:"max-skins"`
		Require64x64          bool `yaml:"require-64x64"`
		MaxFileSizeKB         int  `yaml:"max-file-size-kb"`
		UploadCooldownSeconds int  `yaml:"upload-cooldown-seconds"`
	} `yaml:"skin-management"`

	MineSkin struct {
		APIKey         string `yaml:"api-key"`
		BaseURL        string `yaml:"base-url"`
		TimeoutSeconds int    `yaml:"timeout-seconds"`
	} `yaml:"mineskin"`

	Storage struct {
		DataFile string `yaml:"data_file"`
	} `yaml:"storage"`
}

// Load reads the YAML file at path, applies defaults and env overrides.
// An empty path skips the file and uses defaults plus environment only.
func Load(path string) (*Config, error) {
	var c Config

	// Defaults go in first so the YAML file only overrides keys it names.
	c.App.Env = "dev"
	c.Log.Level = "info"
	c.Server.Addr = ":8123"
	c.Web.PinExpirySeconds = 600
	c.Web.SessionExpiryDays = 30
	c.SkinManagement.MaxSkins = 5
	c.SkinManagement.Require64x64 = true
	c.SkinManagement.MaxFileSizeKB = 1024
	c.SkinManagement.UploadCooldownSeconds = 60
	c.MineSkin.TimeoutSeconds = 15
	c.Storage.DataFile = "data/skins.json"

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Durations derived from the raw fields.

func (c *Config) PinTTL() time.Duration {
	return time.Duration(c.Web.PinExpirySeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Web.SessionExpiryDays) * 24 * time.Hour
}

func (c *Config) UploadCooldown() time.Duration {
	return time.Duration(c.SkinManagement.UploadCooldownSeconds) * time.Second
}

func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.SkinManagement.MaxFileSizeKB) * 1024
}

func (c *Config) MineSkinTimeout() time.Duration {
	return time.Duration(c.MineSkin.TimeoutSeconds) * time.Second
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.Web.PinExpirySeconds < 1 {
		return fmt.Errorf("config: web.pin-expiry-seconds must be positive")
	}
	if c.Web.SessionExpiryDays < 1 {
		return fmt.Errorf("config: web.session-expiry-days must be positive")
	}
	if c.SkinManagement.MaxSkins < 1 {
		return fmt.Errorf("config: skin-management.max-skins must be at least 1")
	}
	if c.SkinManagement.MaxFileSizeKB < 1 {
		return fmt.Errorf("config: skin-management.max-file-size-kb must be at least 1")
	}
	return nil
}

// ---- env helpers ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

// applyEnvOverrides lets the environment win over config.yaml.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("ADMIN_API_KEY"); ok {
		c.Server.AdminAPIKey = v
	}
	if v, ok := getEnvInt("PIN_EXPIRY_SECONDS"); ok {
		c.Web.PinExpirySeconds = v
	}
	if v, ok := getEnvInt("SESSION_EXPIRY_DAYS"); ok {
		c.Web.SessionExpiryDays = v
	}
	if v, ok := getEnvInt("MAX_SKINS"); ok {
		c.SkinManagement.MaxSkins = v
	}
	if v, ok := getEnvBool("REQUIRE_64X64"); ok {
		c.SkinManagement.Require64x64 = v
	}
	if v, ok := getEnvInt("MAX_FILE_SIZE_KB"); ok {
		c.SkinManagement.MaxFileSizeKB = v
	}
	if v, ok := getEnvInt("UPLOAD_COOLDOWN_SECONDS"); ok {
		c.SkinManagement.UploadCooldownSeconds = v
	}
	if v, ok := getEnvStr("MINESKIN_API_KEY"); ok {
		c.MineSkin.APIKey = v
	}
	if v, ok := getEnvStr("MINESKIN_BASE_URL"); ok {
		c.MineSkin.BaseURL = v
	}
	if v, ok := getEnvInt("MINESKIN_TIMEOUT_SECONDS"); ok {
		c.MineSkin.TimeoutSeconds = v
	}
	if v, ok := getEnvStr("DATA_FILE"); ok {
		c.Storage.DataFile = v
	}
}
