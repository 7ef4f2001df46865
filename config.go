package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/john/elegoo_hub/logger"
	"github.com/john/elegoo_hub/printer"
)

var errInvalidConfig = errors.New("invalid config")

type Config struct {
	Hub      HubConfig        `yaml:"hub"`
	Fetch    FetchConfig      `yaml:"fetch"`
	Printers printer.Registry `yaml:"printers"`
	Log      logger.Config    `yaml:"log"`
}

type HubConfig struct {
	// URL is the aggregation service base URL.
	URL    string `yaml:"url"`
	Secret string `yaml:"secret"`
	// PollInterval is the sleep between cycles in seconds.
	PollInterval int `yaml:"poll_interval"`
	// PublishTimeout bounds the batch POST in seconds.
	PublishTimeout int `yaml:"publish_timeout"`
}

type FetchConfig struct {
	// Timeout bounds each printer query in seconds.
	Timeout int `yaml:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		Hub: HubConfig{
			URL:            "https://tu-app.vercel.app",
			Secret:         "changeme",
			PollInterval:   30,
			PublishTimeout: 10,
		},
		Fetch: FetchConfig{
			Timeout: 5,
		},
		Printers: printer.DefaultRegistry(),
		Log: logger.Config{
			Level:  "info",
			Output: "stdout",
			Format: "console",
		},
	}
}

// LoadConfig builds the configuration from defaults, the optional YAML file
// at path, and environment overrides, in that order.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PROTOTIPALO_URL"); v != "" {
		c.Hub.URL = v
	}
	if v := os.Getenv("ELEGOO_HUB_SECRET"); v != "" {
		c.Hub.Secret = v
	}
	if v := os.Getenv("ELEGOO_POLL_INTERVAL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: ELEGOO_POLL_INTERVAL=%q", errInvalidConfig, v)
		}
		c.Hub.PollInterval = n
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		v = strings.ToLower(v)
		c.Log.Debug = v == "true" || v == "1" || v == "yes" || v == "on"
	}
	if v := os.Getenv("LOG_OUTPUT"); v != "" {
		c.Log.Output = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}

	return nil
}

// Validate checks the hub settings and the printer registry.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Hub.URL) == "" {
		return fmt.Errorf("%w: hub.url is empty", errInvalidConfig)
	}
	if c.Hub.PollInterval <= 0 {
		return fmt.Errorf("%w: hub.poll_interval must be positive", errInvalidConfig)
	}
	if c.Hub.PublishTimeout <= 0 || c.Fetch.Timeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", errInvalidConfig)
	}

	if err := c.Printers.Validate(); err != nil {
		return fmt.Errorf("printers: %w", err)
	}

	return nil
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Hub.PollInterval) * time.Second
}

func (c *Config) PublishTimeout() time.Duration {
	return time.Duration(c.Hub.PublishTimeout) * time.Second
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.Timeout) * time.Second
}
