package usecase

import (
	"selector-scanner/internal/config"
	"selector-scanner/internal/ports"
	"selector-scanner/internal/usecase/adapters"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	Scan    adapters.ScanService
	Browser adapters.BrowserService
}

type Params struct {
	fx.In

	Logger  *zap.Logger
	Config  *config.Config
	Driver  ports.PageDriver
	Scanner ports.DocumentScanner
}

func NewUsecase(params Params) *Service {
	factory := newServiceFactory(params)

	return &Service{
		Scan:    factory.CreateScanService(),
		Browser: factory.CreateBrowserService(),
	}
}
