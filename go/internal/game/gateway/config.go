package gateway

import "time"

// Config holds the channel settings for a Manager
type Config struct {
	// URL is the WebSocket base, e.g. wss://alias.example.com
	URL            string        `yaml:"ws_url"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
	DialTimeout    time.Duration `yaml:"dial_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	MaxMessageSize int64         `yaml:"max_message_size"`
}

// DefaultConfig returns default channel configuration. The read timeout is
// longer than the server's ping period.
func DefaultConfig() Config {
	return Config{
		URL:            "ws://localhost:8080",
		ReconnectDelay: 3 * time.Second,
		DialTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		ReadTimeout:    90 * time.Second,
		MaxMessageSize: 64 * 1024,
	}
}

// withDefaults fills zero values from DefaultConfig
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.URL == "" {
		c.URL = d.URL
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = d.ReconnectDelay
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = d.DialTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	return c
}
