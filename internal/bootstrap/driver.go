package bootstrap

import (
	"context"

	"selector-scanner/internal/browser"
	"selector-scanner/internal/browser/cdp"
	"selector-scanner/internal/config"
	"selector-scanner/internal/ports"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newPageDriver(conf *config.Config, logger *zap.Logger) ports.PageDriver {
	if conf.BrowserConfig.Driver == config.DriverRod {
		return cdp.NewDriver(cdp.Params{Config: conf, Logger: logger})
	}

	return browser.NewManager(browser.Params{Config: conf, Logger: logger})
}

// closeDriverOnStop releases the browser if a job launched one.
func closeDriverOnStop(lc fx.Lifecycle, driver ports.PageDriver, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if !driver.IsReady() {
				return nil
			}

			if err := driver.Close(ctx); err != nil {
				logger.Error("Failed to close browser", zap.Error(err))
			}

			return nil
		},
	})
}
