package ports

import (
	"context"

	"selector-scanner/internal/dom"
	"selector-scanner/internal/dom/snapshot"
	"selector-scanner/internal/entity"
)

// PageDriver loads pages in a real browser and captures them as snapshots.
type PageDriver interface {
	Launch(ctx context.Context) error
	Close(ctx context.Context) error
	Navigate(ctx context.Context, url string) error
	Snapshot(ctx context.Context) (*snapshot.Document, error)
	IsReady() bool
}

type DocumentScanner interface {
	Scan(ctx context.Context, doc dom.Document) (*entity.ScanReport, error)
	ScanShadow(ctx context.Context, doc dom.Document) ([]entity.ShadowElementRecord, error)
}
