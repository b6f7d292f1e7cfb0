package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS            bool          `yaml:"cors" default:"true"`
		TriggerRPS      float64       `yaml:"trigger_rps" default:"2"`
		TriggerBurst    int           `yaml:"trigger_burst" default:"5"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Predictor struct {
		BaseURL        string        `yaml:"base_url" default:"https://trading-bot-595h.onrender.com"`
		DefaultSymbol  string        `yaml:"default_symbol" default:"EURUSD=X"`
		FullTimeout    time.Duration `yaml:"full_timeout" default:"600s"`
		QuickTimeout   time.Duration `yaml:"quick_timeout" default:"120s"`
		UltraTimeout   time.Duration `yaml:"ultra_timeout" default:"60s"`
		CatalogTimeout time.Duration `yaml:"catalog_timeout" default:"15s"`
		RequestsPerSec float64       `yaml:"requests_per_sec" default:"5"`
		Burst          int           `yaml:"burst" default:"5"`
		CatalogRetry   struct {
			MaxElapsed      time.Duration `yaml:"max_elapsed" default:"30s"`
			InitialInterval time.Duration `yaml:"initial_interval" default:"500ms"`
		} `yaml:"catalog_retry"`
	} `yaml:"predictor"`
	Progress struct {
		Interval time.Duration `yaml:"interval" default:"800ms"`
		MaxStep  float64       `yaml:"max_step" default:"15"`
		Cap      float64       `yaml:"cap" default:"95"`
	} `yaml:"progress"`
	Cache struct {
		TTL             time.Duration `yaml:"ttl" default:"10m"`
		MemoryMaxSize   int           `yaml:"memory_max_size" default:"256"`
		// CleanupInterval sweeps expired memory entries; 0 disables the sweep.
		CleanupInterval time.Duration `yaml:"cleanup_interval" default:"1m"`
		Redis           struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"forexdash"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Default returns a config populated only from struct defaults.
func Default() *Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		// defaults are static tags; failure here is a programming error
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &c
}

// Load reads and parses a YAML configuration file on top of the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("APP_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PREDICTOR_BASE_URL"); v != "" {
		c.Predictor.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("DEFAULT_SYMBOL"); v != "" {
		c.Predictor.DefaultSymbol = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		c.Cache.Redis.Enabled = true
		c.Cache.Redis.Host = host
		if ok {
			if p, err := strconv.Atoi(port); err == nil {
				c.Cache.Redis.Port = p
			}
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Predictor.BaseURL == "" {
		return fmt.Errorf("predictor.base_url is required")
	}
	if !strings.HasPrefix(c.Predictor.BaseURL, "http://") && !strings.HasPrefix(c.Predictor.BaseURL, "https://") {
		return fmt.Errorf("predictor.base_url must be an http(s) URL, got '%s'", c.Predictor.BaseURL)
	}
	if c.Predictor.FullTimeout <= 0 || c.Predictor.QuickTimeout <= 0 || c.Predictor.UltraTimeout <= 0 {
		return fmt.Errorf("predictor timeouts must be positive")
	}
	if c.Progress.Interval <= 0 {
		return fmt.Errorf("progress.interval must be positive")
	}
	if c.Progress.Cap <= 0 || c.Progress.Cap > 100 {
		return fmt.Errorf("progress.cap must be in (0,100], got %v", c.Progress.Cap)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}
