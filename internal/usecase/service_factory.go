package usecase

import (
	"selector-scanner/internal/usecase/adapters"
)

type serviceFactory struct {
	deps Params
}

func newServiceFactory(deps Params) *serviceFactory {
	return &serviceFactory{
		deps: deps,
	}
}

func (f *serviceFactory) CreateScanService() adapters.ScanService {
	return NewScanService(ScanServiceParams{
		Driver:  f.deps.Driver,
		Scanner: f.deps.Scanner,
		Config:  f.deps.Config,
		Logger:  f.deps.Logger,
	})
}

func (f *serviceFactory) CreateBrowserService() adapters.BrowserService {
	return f.deps.Driver
}
