// Package cdp drives Chromium over the DevTools protocol with go-rod.
package cdp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"selector-scanner/internal/browser"
	"selector-scanner/internal/config"
	"selector-scanner/internal/dom/snapshot"
	"selector-scanner/pkg/apperr"
	"selector-scanner/pkg/logg"
	"selector-scanner/pkg/tracing"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	driverName   = "CDPDriver"
	driverTracer = "browser.cdp"
)

type Driver struct {
	config   *config.Config
	logger   *zap.Logger
	tracer   trace.Tracer
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

type Params struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
}

func NewDriver(params Params) *Driver {
	return &Driver{
		config: params.Config,
		logger: params.Logger.With(zap.String(logg.Layer, driverName), zap.String(logg.Driver, config.DriverRod)),
		tracer: otel.Tracer(driverTracer),
	}
}

func (d *Driver) Launch(ctx context.Context) (err error) {
	const op = "Launch"
	logger := d.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, d.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	if d.page != nil {
		return nil
	}

	logger.Info("Launching browser...")

	l := launcher.New().
		Context(ctx).
		Headless(d.config.BrowserConfig.Headless).
		NoSandbox(true)

	if dir := d.config.BrowserConfig.UserDataDir; dir != "" {
		l = l.UserDataDir(dir)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "browser_launch_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}
	d.launcher = l

	b := rod.New().
		ControlURL(controlURL).
		SlowMotion(time.Duration(d.config.BrowserConfig.SlowMo) * time.Millisecond)

	if err := b.Connect(); err != nil {
		d.cleanup()

		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "connect_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}
	d.browser = b

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		d.cleanup()

		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "page_create_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}
	d.page = page

	logger.Info("Browser launched successfully")

	return nil
}

func (d *Driver) Close(ctx context.Context) (err error) {
	const op = "Close"
	logger := d.logger.With(zap.String(logg.Operation, op))

	_, step := tracing.StartSpan(ctx, d.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	d.cleanup()
	logger.Info("Browser closed")

	return nil
}

func (d *Driver) cleanup() {
	if d.browser != nil {
		if err := d.browser.Close(); err != nil {
			d.logger.Warn("Failed to close browser", zap.Error(err))
		}
	}

	if d.launcher != nil {
		d.launcher.Kill()
		d.launcher.Cleanup()
	}

	d.browser = nil
	d.launcher = nil
	d.page = nil
}

func (d *Driver) Navigate(ctx context.Context, url string) (err error) {
	const op = "Navigate"
	logger := d.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, url))

	ctx, step := tracing.StartSpan(ctx, d.tracer, logger, op, attribute.String("url", url))
	defer func() {
		step.End(err)
	}()

	if !d.IsReady() {
		return apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	page := d.page.Context(ctx).Timeout(time.Duration(d.config.BrowserConfig.Timeout) * time.Millisecond)

	if err := page.Navigate(url); err != nil {
		code := apperr.CodeActionFailed
		if errors.Is(err, context.DeadlineExceeded) {
			code = apperr.CodeTimeout
		}

		return apperr.Wrap(op, code, err, map[string]any{
			apperr.MetaReason: "navigate_failed",
			apperr.MetaStage:  apperr.StageNavigation,
			apperr.MetaURL:    url,
		})
	}

	if err := page.WaitLoad(); err != nil {
		logger.Warn("Wait load failed", zap.Error(err))
	}

	step.AddEvent("navigation completed")

	return nil
}

func (d *Driver) Snapshot(ctx context.Context) (doc *snapshot.Document, err error) {
	const op = "Snapshot"
	logger := d.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, d.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	if !d.IsReady() {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	res, err := d.page.Context(ctx).Eval(browser.SnapshotFunction())
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "evaluate_failed",
			apperr.MetaStage:  apperr.StageSnapshot,
		})
	}

	doc, err = decodeValue(res.Value)
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "unexpected_result_type",
			apperr.MetaStage:  apperr.StageSnapshot,
		})
	}

	step.SetAttributes(attribute.Int("elements", len(doc.Elements())))

	if doc.Truncated() {
		logger.Warn("Snapshot truncated, deeply nested elements were dropped")
	}

	return doc, nil
}

func (d *Driver) IsReady() bool {
	return d.page != nil
}

func decodeValue(v gson.JSON) (*snapshot.Document, error) {
	if v.Nil() {
		return nil, errors.New("snapshot result is empty")
	}

	if _, ok := v.Val().(map[string]interface{}); !ok {
		return nil, fmt.Errorf("snapshot result is %T, want object", v.Val())
	}

	data, err := v.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode snapshot result: %w", err)
	}

	return snapshot.Parse(data)
}
