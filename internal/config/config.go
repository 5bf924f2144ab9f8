// Package config loads figma-bridge settings from defaults, an optional YAML file,
// a .env file and FIGMA_BRIDGE_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment key, e.g. FIGMA_BRIDGE_SERVER_ADDR.
const EnvPrefix = "FIGMA_BRIDGE"

// Config is the complete set of settings.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Figma   FigmaConfig   `mapstructure:"figma"`
	Storage StorageConfig `mapstructure:"storage"`
	Image   ImageConfig   `mapstructure:"image"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	PublicURL    string        `mapstructure:"public_url"` // externally reachable base, e.g. https://bridge.example.com
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	RateLimit    float64       `mapstructure:"rate_limit"` // per client IP, requests per second, 0 = off
	RateBurst    int           `mapstructure:"rate_burst"`
}

type FigmaConfig struct {
	Token        string        `mapstructure:"token"`
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	RedirectURL  string        `mapstructure:"redirect_url"`
	APIBase      string        `mapstructure:"api_base"`
	RateLimit    float64       `mapstructure:"rate_limit"` // requests per second, 0 = unlimited
	Timeout      time.Duration `mapstructure:"timeout"`
}

// OAuthEnabled reports whether the OAuth app credentials are set.
func (c FigmaConfig) OAuthEnabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type StorageConfig struct {
	Dir       string `mapstructure:"dir"`
	DB        string `mapstructure:"db"`
	URLPrefix string `mapstructure:"url_prefix"` // route the directory is served under
}

type ImageConfig struct {
	MaxWidth int    `mapstructure:"max_width"`
	Format   string `mapstructure:"format"`
	Quality  int    `mapstructure:"quality"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.public_url", "")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "2m")
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.rate_burst", 10)

	// Figma defaults
	v.SetDefault("figma.token", "")
	v.SetDefault("figma.client_id", "")
	v.SetDefault("figma.client_secret", "")
	v.SetDefault("figma.redirect_url", "")
	v.SetDefault("figma.api_base", "https://api.figma.com/v1")
	v.SetDefault("figma.rate_limit", 0)
	v.SetDefault("figma.timeout", "60s")

	// Storage defaults
	v.SetDefault("storage.dir", "./data/files")
	v.SetDefault("storage.db", "./data/figma-bridge.db")
	v.SetDefault("storage.url_prefix", "/files")

	// Image defaults
	v.SetDefault("image.max_width", 1920)
	v.SetDefault("image.format", "png")
	v.SetDefault("image.quality", 85)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads the configuration. configPath may be empty; a missing .env file is ignored.
// FIGMA_TOKEN and FIGMA_ACCESS_TOKEN are accepted as fallbacks for the token.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("figma.token", EnvPrefix+"_FIGMA_TOKEN", "FIGMA_TOKEN", "FIGMA_ACCESS_TOKEN"); err != nil {
		return nil, err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Image.Format {
	case "png", "jpeg", "jpg":
	default:
		return fmt.Errorf("image.format must be png or jpeg, got %q", c.Image.Format)
	}
	if c.Image.MaxWidth < 0 {
		return fmt.Errorf("image.max_width must not be negative")
	}
	if c.Image.Quality < 1 || c.Image.Quality > 100 {
		return fmt.Errorf("image.quality must be between 1 and 100, got %d", c.Image.Quality)
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 1 {
		return fmt.Errorf("server.rate_limit must not be negative and server.rate_burst must be at least 1")
	}
	if c.Figma.RateLimit < 0 {
		return fmt.Errorf("figma.rate_limit must not be negative")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if !strings.HasPrefix(c.Storage.URLPrefix, "/") {
		return fmt.Errorf("storage.url_prefix must start with '/', got %q", c.Storage.URLPrefix)
	}
	return nil
}

// FilesURL is the base URL stored files are reachable under. Without a public URL it is
// the bare route prefix.
func (c *Config) FilesURL() string {
	return strings.TrimSuffix(c.Server.PublicURL, "/") + "/" + strings.Trim(c.Storage.URLPrefix, "/")
}

// NewLogger builds a logrus logger writing to out at the configured level and format.
func (c LogConfig) NewLogger(out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if c.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
