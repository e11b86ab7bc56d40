package adapters

import (
	"context"

	"selector-scanner/internal/entity"
)

type BrowserService interface {
	Launch(ctx context.Context) error
	Close(ctx context.Context) error
	IsReady() bool
}

type ScanService interface {
	ScanURL(ctx context.Context, url string) (*entity.ScanReport, error)
	ScanHTML(ctx context.Context, source, html string) (*entity.ScanReport, error)
	ScanFile(ctx context.Context, path string) (*entity.ScanReport, error)
	ScanShadow(ctx context.Context, url string) ([]entity.ShadowElementRecord, error)
	Last() *entity.ScanReport
}
