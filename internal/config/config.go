package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"GoldStore/internal/goldprice"
)

type Catalog struct {
	Path        string `yaml:"path"`
	DatabaseURL string `yaml:"database_url"`
}

type GoldPrice struct {
	APIKey          string  `yaml:"api_key"`
	BaseURL         string  `yaml:"base_url"`
	FallbackPerGram float64 `yaml:"fallback_per_gram"`
	TimeoutSeconds  int     `yaml:"timeout_seconds"`
	RatePerSecond   float64 `yaml:"rate_per_second"`
	Burst           int     `yaml:"burst"`
	RedisAddr       string  `yaml:"redis_addr"`
}

type Probe struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
	LimitPerMinute int `yaml:"limit_per_minute"`
}

type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

type Root struct {
	Port      string    `yaml:"port"`
	LogLevel  string    `yaml:"log_level"`
	Catalog   Catalog   `yaml:"catalog"`
	GoldPrice GoldPrice `yaml:"gold_price"`
	Probe     Probe     `yaml:"probe"`
	Metrics   Metrics   `yaml:"metrics"`
}

func Defaults() Root {
	return Root{
		Port:     "8080",
		LogLevel: "info",
		GoldPrice: GoldPrice{
			BaseURL:         goldprice.DefaultMetalsBaseURL,
			FallbackPerGram: goldprice.DefaultFallbackPerGram,
			TimeoutSeconds:  10,
			RatePerSecond:   1,
			Burst:           2,
		},
		Probe: Probe{
			TimeoutSeconds: 8,
			LimitPerMinute: 6,
		},
		Metrics: Metrics{Enabled: true},
	}
}

// Load layers defaults, the YAML file at path (skipped when path is empty or
// the file does not exist) and environment overrides, in that order.
func Load(path string) (Root, error) {
	c := Defaults()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Root{}, err
		default:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return Root{}, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(&c); err != nil {
		return Root{}, err
	}
	if err := c.Validate(); err != nil {
		return Root{}, err
	}
	return c, nil
}

func (c Root) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if !(c.GoldPrice.FallbackPerGram > 0) {
		return fmt.Errorf("gold_price.fallback_per_gram must be positive, got %v", c.GoldPrice.FallbackPerGram)
	}
	return nil
}

func (g GoldPrice) Timeout() time.Duration { return time.Duration(g.TimeoutSeconds) * time.Second }
func (p Probe) Timeout() time.Duration     { return time.Duration(p.TimeoutSeconds) * time.Second }

func applyEnv(c *Root) error {
	setString(&c.Port, "PORT")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Catalog.Path, "CATALOG_PATH")
	setString(&c.Catalog.DatabaseURL, "DATABASE_URL")
	setString(&c.GoldPrice.APIKey, "METALS_API_KEY")
	setString(&c.GoldPrice.BaseURL, "METALS_API_URL")
	setString(&c.GoldPrice.RedisAddr, "REDIS_ADDR")
	setString(&c.Metrics.Token, "METRICS_TOKEN")

	if v := os.Getenv("GOLD_FALLBACK_PRICE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("GOLD_FALLBACK_PRICE: %w", err)
		}
		c.GoldPrice.FallbackPerGram = f
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("METRICS_ENABLED: %w", err)
		}
		c.Metrics.Enabled = b
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
