package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/YarikYar/alias/go/internal/game/gateway"
	"github.com/YarikYar/alias/go/internal/game/gesture"
	"github.com/YarikYar/alias/go/internal/game/store"
	"github.com/YarikYar/alias/go/internal/relay"
)

const defaultConfigPath = "alias.yaml"

type Config struct {
	APIURL       string `yaml:"api_url"`
	InitData     string `yaml:"init_data"`
	LogLevel     string `yaml:"log_level"`
	HTTPAddr     string `yaml:"http_addr"`
	RoundSeconds int    `yaml:"round_seconds"`

	Gateway gateway.Config `yaml:",inline"`
	Gesture gesture.Config `yaml:",inline"`

	Slot  SlotConfig   `yaml:"slot"`
	Relay relay.Config `yaml:"relay"`
}

type SlotConfig struct {
	Backend   string        `yaml:"backend"` // memory | redis
	RedisAddr string        `yaml:"redis_addr"`
	TTL       time.Duration `yaml:"ttl"`
}

func defaultConfig() *Config {
	relayCfg := relay.DefaultConfig()
	relayCfg.URL = "" // disabled unless configured

	return &Config{
		APIURL:       "http://localhost:8080",
		LogLevel:     "info",
		RoundSeconds: store.DefaultRoundSeconds,
		Gateway:      gateway.DefaultConfig(),
		Gesture:      gesture.DefaultConfig(),
		Slot: SlotConfig{
			Backend:   "memory",
			RedisAddr: "localhost:6379",
			TTL:       12 * time.Hour,
		},
		Relay: relayCfg,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// loadConfig reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file at the default path is not an error.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	if path == "" {
		path = defaultConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && path == defaultConfigPath:
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.applyEnv()

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	c.APIURL = getEnv("ALIAS_API_URL", c.APIURL)
	c.Gateway.URL = getEnv("ALIAS_WS_URL", c.Gateway.URL)
	c.InitData = getEnv("ALIAS_INIT_DATA", c.InitData)
	c.LogLevel = getEnv("ALIAS_LOG_LEVEL", c.LogLevel)
	c.HTTPAddr = getEnv("ALIAS_HTTP_ADDR", c.HTTPAddr)
	c.RoundSeconds = getEnvAsInt("ALIAS_ROUND_SECONDS", c.RoundSeconds)
	c.Gateway.ReconnectDelay = getEnvAsDuration("ALIAS_RECONNECT_DELAY", c.Gateway.ReconnectDelay)
	c.Slot.Backend = getEnv("ALIAS_SLOT_BACKEND", c.Slot.Backend)
	c.Slot.RedisAddr = getEnv("REDIS_ADDR", c.Slot.RedisAddr)
	c.Relay.URL = getEnv("NATS_URL", c.Relay.URL)
}

func (c *Config) validate() error {
	switch c.Slot.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown slot backend %q", c.Slot.Backend)
	}
	if c.RoundSeconds <= 0 {
		return fmt.Errorf("round_seconds must be positive, got %d", c.RoundSeconds)
	}
	return nil
}
