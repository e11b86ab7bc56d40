package bootstrap

import (
	"time"

	"selector-scanner/internal/config"
	"selector-scanner/internal/console"
	"selector-scanner/internal/ports"
	"selector-scanner/internal/scanner"
	"selector-scanner/internal/usecase"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const startTimeout = 10 * time.Second

// Module provides everything a scan needs, from config to the use case.
func Module(overrides ...func(*config.Config)) fx.Option {
	return fx.Options(
		fx.Provide(
			func() (*config.Config, error) {
				return loadConfig(overrides...)
			},
			newLogger,
			newTraceProvider,

			newPageDriver,
			fx.Annotate(scanner.NewScanner, fx.As(new(ports.DocumentScanner))),

			usecase.NewUsecase,
		),

		fx.Invoke(func(*sdktrace.TracerProvider) {}),

		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx").WithOptions(zap.IncreaseLevel(zap.WarnLevel))}
		}),
	)
}

// NewApp builds the interactive console application.
func NewApp(overrides ...func(*config.Config)) *fx.App {
	return fx.New(
		Module(overrides...),

		fx.Provide(
			console.NewInterface,
		),

		fx.Invoke(
			runConsole,
		),

		fx.StartTimeout(startTimeout),
	)
}

// NewJob builds an application for a single command; targets are filled
// the way fx.Populate does.
func NewJob(targets []any, overrides ...func(*config.Config)) *fx.App {
	return fx.New(
		Module(overrides...),

		fx.Populate(targets...),
		fx.Invoke(closeDriverOnStop),

		fx.StartTimeout(startTimeout),
	)
}

func loadConfig(overrides ...func(*config.Config)) (*config.Config, error) {
	conf, err := config.GetConfig()
	if err != nil {
		return nil, err
	}

	for _, override := range overrides {
		override(conf)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}
