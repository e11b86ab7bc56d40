package scanner

import (
	"context"
	"errors"
	"time"

	"selector-scanner/internal/dom"
	"selector-scanner/internal/entity"
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
	scannerName   = "Scanner"
	scannerTracer = "scanner"

	reasonAccessDenied = "access_denied"
	reasonNoDocument   = "no_document"
	reasonUnreadable   = "unreadable"
)

type Scanner struct {
	logger *zap.Logger
	tracer trace.Tracer
	now    func() time.Time
}

type Params struct {
	fx.In

	Logger *zap.Logger
}

func NewScanner(params Params) *Scanner {
	return &Scanner{
		logger: params.Logger.With(zap.String(logg.Layer, scannerName)),
		tracer: otel.Tracer(scannerTracer),
		now:    time.Now,
	}
}

// Scan walks the main document, its shadow roots and every readable iframe
// document, and reports the visible records. Iframes that cannot be read
// are skipped and listed in the report's roots.
func (s *Scanner) Scan(ctx context.Context, doc dom.Document) (report *entity.ScanReport, err error) {
	const op = "Scan"
	logger := s.logger.With(zap.String(logg.Operation, op))

	_, step := tracing.StartSpan(ctx, s.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	if doc == nil {
		return nil, apperr.Wrap(op, apperr.CodeBrowserNotReady, errors.New("no document to scan"), map[string]any{
			apperr.MetaReason: reasonNoDocument,
			apperr.MetaStage:  apperr.StageScan,
		})
	}

	step.SetAttributes(attribute.String("url", doc.URL()))

	records := Walk(doc, entity.ContextMain)
	roots := []entity.RootOutcome{{
		Context: entity.ContextMain,
		Status:  entity.RootScanned,
		Records: len(records),
	}}

	for index, frame := range doc.IFrames() {
		frameCtx := entity.IFrameContext(index)

		frameDoc, err := frame.ContentDocument()
		if err != nil || frameDoc == nil {
			reason := skipReason(err)
			logger.Warn("Cannot access iframe document",
				zap.String(logg.Context, string(frameCtx)),
				zap.String(apperr.MetaReason, reason),
				zap.Error(err))

			roots = append(roots, entity.RootOutcome{
				Context: frameCtx,
				Status:  entity.RootSkipped,
				Reason:  reason,
			})

			continue
		}

		frameRecords := Walk(frameDoc, frameCtx)
		records = append(records, frameRecords...)
		roots = append(roots, entity.RootOutcome{
			Context: frameCtx,
			Status:  entity.RootScanned,
			Records: len(frameRecords),
		})
	}

	report = entity.NewScanReport(records, doc.URL(), s.now().UnixMilli(), roots)

	step.SetAttributes(
		attribute.Int("total_elements", report.TotalElements),
		attribute.Int("visible_elements", len(report.Elements)),
	)
	logger.Debug("Scan completed",
		zap.String(logg.ScanID, report.ScanID.String()),
		zap.Int("total", report.TotalElements),
		zap.Int("visible", len(report.Elements)),
		zap.Int("skipped_roots", len(report.Skipped())))

	return report, nil
}

// ScanShadow runs the interactive-element scan over the shadow roots of doc.
func (s *Scanner) ScanShadow(ctx context.Context, doc dom.Document) (records []entity.ShadowElementRecord, err error) {
	const op = "ScanShadow"
	logger := s.logger.With(zap.String(logg.Operation, op))

	_, step := tracing.StartSpan(ctx, s.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	if doc == nil {
		return nil, apperr.Wrap(op, apperr.CodeBrowserNotReady, errors.New("no document to scan"), map[string]any{
			apperr.MetaReason: reasonNoDocument,
			apperr.MetaStage:  apperr.StageScan,
		})
	}

	records = ScanShadowRoots(doc)
	step.SetAttributes(attribute.Int("shadow_elements", len(records)))

	return records, nil
}

func skipReason(err error) string {
	switch {
	case err == nil:
		return reasonNoDocument
	case errors.Is(err, dom.ErrAccessDenied), apperr.HasCode(err, apperr.CodeAccessDenied):
		return reasonAccessDenied
	default:
		return reasonUnreadable
	}
}
