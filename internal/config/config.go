package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPlaywright = "playwright"
	DriverRod        = "rod"

	FormatJSON = "json"
	FormatYAML = "yaml"
)

type Config struct {
	AppConfig     *AppConfig
	BrowserConfig *BrowserConfig
	ScanConfig    *ScanConfig
}

type AppConfig struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
	Tracing  bool   `envconfig:"TRACING" default:"false"`
}

type BrowserConfig struct {
	Driver      string `envconfig:"BROWSER_DRIVER" default:"playwright"`
	Headless    bool   `envconfig:"BROWSER_HEADLESS" default:"true"`
	SlowMo      int    `envconfig:"BROWSER_SLOW_MO" default:"0"`
	Timeout     int    `envconfig:"BROWSER_TIMEOUT" default:"30000"`
	UserDataDir string `envconfig:"BROWSER_USER_DATA_DIR" default:""`
}

type ScanConfig struct {
	Format        string        `envconfig:"SCAN_FORMAT" default:"json"`
	IncludeHidden bool          `envconfig:"SCAN_INCLUDE_HIDDEN" default:"false"`
	BridgeTimeout time.Duration `envconfig:"SCAN_BRIDGE_TIMEOUT" default:"5s"`
}

func GetConfig() (*Config, error) {
	_ = godotenv.Load()

	var conf Config

	if err := envconfig.Process("", &conf); err != nil {
		return nil, fmt.Errorf("read config from env vars: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return &conf, nil
}

func (c *Config) Validate() error {
	switch c.BrowserConfig.Driver {
	case DriverPlaywright, DriverRod:
	default:
		return fmt.Errorf("unknown browser driver %q", c.BrowserConfig.Driver)
	}

	switch c.ScanConfig.Format {
	case FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q", c.ScanConfig.Format)
	}

	if c.ScanConfig.BridgeTimeout <= 0 {
		return fmt.Errorf("bridge timeout must be positive, got %s", c.ScanConfig.BridgeTimeout)
	}

	return nil
}
