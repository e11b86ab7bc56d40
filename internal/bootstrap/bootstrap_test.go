package bootstrap

import (
	"testing"

	"selector-scanner/internal/browser"
	"selector-scanner/internal/browser/cdp"
	"selector-scanner/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func testConfig(driver string) *config.Config {
	return &config.Config{
		AppConfig:     &config.AppConfig{LogLevel: "warn"},
		BrowserConfig: &config.BrowserConfig{Driver: driver, Headless: true, Timeout: 1000},
		ScanConfig:    &config.ScanConfig{Format: config.FormatJSON},
	}
}

func TestNewPageDriver(t *testing.T) {
	assert.IsType(t, &browser.Manager{}, newPageDriver(testConfig(config.DriverPlaywright), zap.NewNop()))
	assert.IsType(t, &cdp.Driver{}, newPageDriver(testConfig(config.DriverRod), zap.NewNop()))
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger(testConfig(config.DriverPlaywright))
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	conf := testConfig(config.DriverPlaywright)
	conf.AppConfig.LogLevel = "loud"

	_, err = newLogger(conf)
	assert.Error(t, err)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BROWSER_DRIVER", "rod")

	conf, err := loadConfig(func(c *config.Config) {
		c.ScanConfig.Format = config.FormatYAML
	})
	require.NoError(t, err)

	assert.Equal(t, config.DriverRod, conf.BrowserConfig.Driver)
	assert.Equal(t, config.FormatYAML, conf.ScanConfig.Format)

	_, err = loadConfig(func(c *config.Config) {
		c.ScanConfig.Format = "xml"
	})
	assert.Error(t, err)
}
