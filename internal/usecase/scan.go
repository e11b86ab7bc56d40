package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"selector-scanner/internal/bridge"
	"selector-scanner/internal/config"
	"selector-scanner/internal/dom"
	"selector-scanner/internal/dom/htmldoc"
	"selector-scanner/internal/entity"
	"selector-scanner/internal/ports"
	"selector-scanner/pkg/apperr"
	"selector-scanner/pkg/logg"
	"selector-scanner/pkg/tracing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	scanServiceName = "ScanService"
	scanTracer      = "usecase.scan"
)

type ScanService struct {
	config  *config.Config
	logger  *zap.Logger
	driver  ports.PageDriver
	scanner ports.DocumentScanner
	tracer  trace.Tracer

	mu   sync.Mutex
	last *entity.ScanReport
}

type ScanServiceParams struct {
	fx.In

	Config  *config.Config
	Logger  *zap.Logger
	Driver  ports.PageDriver
	Scanner ports.DocumentScanner
}

func NewScanService(params ScanServiceParams) *ScanService {
	return &ScanService{
		config:  params.Config,
		logger:  params.Logger.With(zap.String(logg.Layer, scanServiceName)),
		driver:  params.Driver,
		scanner: params.Scanner,
		tracer:  otel.Tracer(scanTracer),
	}
}

// ScanURL loads url in the browser and scans the rendered page.
func (s *ScanService) ScanURL(ctx context.Context, url string) (report *entity.ScanReport, err error) {
	const op = "ScanURL"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, url))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("url", url))
	defer func() {
		step.End(err)
	}()

	doc, err := s.load(ctx, op, url)
	if err != nil {
		return nil, err
	}

	return s.scan(ctx, doc)
}

// ScanHTML scans a static HTML document. source becomes the report URL.
func (s *ScanService) ScanHTML(ctx context.Context, source, html string) (report *entity.ScanReport, err error) {
	const op = "ScanHTML"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, source))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("source", source))
	defer func() {
		step.End(err)
	}()

	opts := htmldoc.DefaultOptions()
	if source != "" {
		opts.URL = source
	}

	doc, err := htmldoc.ParseString(html, opts)
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInvalidArgument, err, map[string]any{
			apperr.MetaReason: "parse_failed",
			apperr.MetaStage:  apperr.StagePreparation,
		})
	}

	return s.scan(ctx, doc)
}

// ScanFile reads an HTML file from disk and scans it.
func (s *ScanService) ScanFile(ctx context.Context, path string) (*entity.ScanReport, error) {
	const op = "ScanFile"

	if strings.TrimSpace(path) == "" {
		return nil, apperr.InvalidReqError(op, "path", errors.New("path cannot be empty"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NotFoundError(op, err)
		}

		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "read_failed",
			apperr.MetaPath:   path,
		})
	}

	source := path
	if abs, err := filepath.Abs(path); err == nil {
		source = "file://" + filepath.ToSlash(abs)
	}

	return s.ScanHTML(ctx, source, string(data))
}

// ScanShadow loads url and asks the page side, over the bridge, for the
// interactive elements inside its shadow roots.
func (s *ScanService) ScanShadow(ctx context.Context, url string) (records []entity.ShadowElementRecord, err error) {
	const op = "ScanShadow"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, url))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("url", url))
	defer func() {
		step.End(err)
	}()

	doc, err := s.load(ctx, op, url)
	if err != nil {
		return nil, err
	}

	ch := bridge.NewChannel(1)
	responder := bridge.NewResponder(s.logger, ch, bridge.ScanFuncs{
		Shadow: func(ctx context.Context) ([]entity.ShadowElementRecord, error) {
			return s.scanner.ScanShadow(ctx, doc)
		},
		Full: func(ctx context.Context) (*entity.ScanReport, error) {
			return s.scanner.Scan(ctx, doc)
		},
	})

	serveCtx, stop := context.WithCancel(ctx)
	served := make(chan struct{})

	go func() {
		defer close(served)

		if err := responder.Serve(serveCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("Responder stopped", zap.Error(err))
		}
	}()

	defer func() {
		stop()
		<-served
	}()

	reqCtx, cancel := context.WithTimeout(ctx, s.config.ScanConfig.BridgeTimeout)
	defer cancel()

	client := bridge.NewClient(s.logger, ch)

	if err := client.WaitReady(reqCtx); err != nil {
		return nil, err
	}

	step.AddEvent("responder ready")

	records, err = client.RequestShadowScan(reqCtx)
	if err != nil {
		return nil, err
	}

	step.SetAttributes(attribute.Int("shadow_elements", len(records)))
	logger.Info("Shadow scan completed", zap.Int("elements", len(records)))

	return records, nil
}

// Last returns the most recent successful report, or nil.
func (s *ScanService) Last() *entity.ScanReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.last
}

func (s *ScanService) load(ctx context.Context, op, url string) (dom.Document, error) {
	if strings.TrimSpace(url) == "" {
		return nil, apperr.InvalidReqError(op, "url", errors.New("url cannot be empty"))
	}

	if !s.driver.IsReady() {
		if err := s.driver.Launch(ctx); err != nil {
			return nil, err
		}
	}

	if err := s.driver.Navigate(ctx, url); err != nil {
		return nil, err
	}

	doc, err := s.driver.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if doc == nil {
		return nil, apperr.Wrap(op, apperr.CodeInternal, fmt.Errorf("driver returned no snapshot for %s", url), map[string]any{
			apperr.MetaStage: apperr.StageSnapshot,
		})
	}

	return doc, nil
}

func (s *ScanService) scan(ctx context.Context, doc dom.Document) (*entity.ScanReport, error) {
	report, err := s.scanner.Scan(ctx, doc)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()

	s.logger.Info("Scan completed",
		zap.String(logg.ScanID, report.ScanID.String()),
		zap.String(logg.URL, report.URL),
		zap.Int("visible", len(report.Elements)),
		zap.Int("total", report.TotalElements))

	return report, nil
}
