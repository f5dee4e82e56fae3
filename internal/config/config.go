package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/joho/godotenv"
)

// QR rendering modes
const (
	QRModeImage    = "image"
	QRModeTerminal = "terminal"
	QRModeBoth     = "both"
)

// Config holds application configuration
type Config struct {
	ServerPort string
	DataDir    string
	LogDir     string
	LogLevel   string
	LogFormat  string
	PublicURL  string

	// QRMode selects how pairing payloads are rendered: image, terminal or both.
	QRMode string

	// ReconnectDelay is the fixed wait before re-initializing a lost session.
	ReconnectDelay time.Duration

	// PhonePrefix is prepended to numbers that strip to exactly PhoneLocalDigits digits.
	PhonePrefix      string
	PhoneLocalDigits int
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		ServerPort:       "3000",
		DataDir:          "data",
		LogDir:           "logs",
		LogLevel:         "info",
		LogFormat:        "console",
		QRMode:           QRModeBoth,
		ReconnectDelay:   10 * time.Second,
		PhonePrefix:      "549",
		PhoneLocalDigits: 10,
	}
}

// Load builds the configuration from defaults, an optional .env file and the
// process environment, in increasing order of precedence.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	c := NewConfig()
	c.ServerPort = getEnv("PORT", c.ServerPort)
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	c.LogDir = getEnv("LOG_DIR", c.LogDir)
	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", c.LogFormat))
	c.PublicURL = getEnv("PUBLIC_URL", c.PublicURL)
	c.QRMode = strings.ToLower(getEnv("QR_MODE", c.QRMode))
	c.PhonePrefix = getEnv("PHONE_PREFIX", c.PhonePrefix)

	if v := os.Getenv("RECONNECT_DELAY"); v != "" {
		d, err := parseDelay(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RECONNECT_DELAY %q: %w", v, err)
		}
		c.ReconnectDelay = d
	}

	if v := os.Getenv("PHONE_LOCAL_DIGITS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PHONE_LOCAL_DIGITS %q: %w", v, err)
		}
		c.PhoneLocalDigits = n
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate rejects configurations the gateway cannot run with.
func (c *Config) Validate() error {
	switch c.QRMode {
	case QRModeImage, QRModeTerminal, QRModeBoth:
	default:
		return fmt.Errorf("unknown QR_MODE %q", c.QRMode)
	}
	if c.ReconnectDelay <= 0 {
		return fmt.Errorf("reconnect delay must be positive, got %s", c.ReconnectDelay)
	}
	if c.PhoneLocalDigits <= 0 {
		return fmt.Errorf("phone local digits must be positive, got %d", c.PhoneLocalDigits)
	}
	for _, r := range c.PhonePrefix {
		if r < '0' || r > '9' {
			return fmt.Errorf("phone prefix must be digits only, got %q", c.PhonePrefix)
		}
	}
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid PORT %q", c.ServerPort)
	}
	return nil
}

// EnsureDataDir ensures the data directory exists
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0755)
}

// GetCorsConfig returns CORS configuration for the application
func (c *Config) GetCorsConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"Content-Length", "Content-Type", "X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// parseDelay accepts a Go duration ("10s") or a bare number of seconds ("10").
func parseDelay(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
