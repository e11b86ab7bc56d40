package bridge

import (
	"context"
	"errors"
	"sync"

	"selector-scanner/internal/entity"
	"selector-scanner/pkg/apperr"
	"selector-scanner/pkg/logg"

	"go.uber.org/zap"
)

// Channel is a pair of one-way frame queues between two contexts.
type Channel struct {
	requests  chan []byte
	responses chan []byte
}

func NewChannel(buffer int) *Channel {
	return &Channel{
		requests:  make(chan []byte, buffer),
		responses: make(chan []byte, buffer),
	}
}

// ScanFuncs are the page-side operations a Responder exposes.
type ScanFuncs struct {
	Shadow func(ctx context.Context) ([]entity.ShadowElementRecord, error)
	Full   func(ctx context.Context) (*entity.ScanReport, error)
}

// Responder answers requests arriving on a Channel. Each request gets at
// most one response; requests it cannot serve are dropped.
type Responder struct {
	logger *zap.Logger
	ch     *Channel
	funcs  ScanFuncs
}

func NewResponder(logger *zap.Logger, ch *Channel, funcs ScanFuncs) *Responder {
	return &Responder{
		logger: logger.With(zap.String(logg.Layer, "BridgeResponder")),
		ch:     ch,
		funcs:  funcs,
	}
}

// Serve posts InjectedScriptReady, then handles requests until ctx is done
// or the request queue is closed.
func (r *Responder) Serve(ctx context.Context) error {
	if err := r.post(ctx, InjectedScriptReady{}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-r.ch.requests:
			if !ok {
				return nil
			}

			resp := r.handle(ctx, frame)
			if resp == nil {
				continue
			}

			if err := r.post(ctx, resp); err != nil {
				return err
			}
		}
	}
}

func (r *Responder) handle(ctx context.Context, frame []byte) Message {
	msg, err := Decode(frame)
	if err != nil {
		r.logger.Debug("Ignoring frame", zap.Error(err))

		return nil
	}

	logger := r.logger.With(zap.String(logg.Message, string(msg.Type())))

	switch msg.(type) {
	case ScanShadowDOMs:
		if r.funcs.Shadow == nil {
			return nil
		}

		elements, err := r.funcs.Shadow(ctx)
		if err != nil {
			logger.Error("Shadow scan failed", zap.Error(err))

			return nil
		}

		return ShadowDOMResults{Elements: elements}
	case ScanDOM:
		if r.funcs.Full == nil {
			return nil
		}

		report, err := r.funcs.Full(ctx)
		if err != nil {
			logger.Error("Scan failed", zap.Error(err))

			return ScanDOMResponse{Success: false, Error: err.Error()}
		}

		return ScanDOMResponse{Success: true, Data: report}
	case ShadowDOMResults, ScanDOMResponse, InjectedScriptReady:
		// Responses and announcements are not requests.
	}

	return nil
}

func (r *Responder) post(ctx context.Context, msg Message) error {
	frame, err := Encode(msg)
	if err != nil {
		return err
	}

	select {
	case r.ch.responses <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Client sends requests over a Channel and waits for the matching response.
// Requests are issued one at a time.
type Client struct {
	logger *zap.Logger
	ch     *Channel
	mu     sync.Mutex
	ready  bool
}

func NewClient(logger *zap.Logger, ch *Channel) *Client {
	return &Client{
		logger: logger.With(zap.String(logg.Layer, "BridgeClient")),
		ch:     ch,
	}
}

// WaitReady blocks until the responder announced itself.
func (c *Client) WaitReady(ctx context.Context) error {
	const op = "WaitReady"

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ready {
		return nil
	}

	_, err := c.await(ctx, op, TypeInjectedScriptReady)

	return err
}

func (c *Client) RequestShadowScan(ctx context.Context) ([]entity.ShadowElementRecord, error) {
	const op = "RequestShadowScan"

	c.mu.Lock()
	defer c.mu.Unlock()

	msg, err := c.roundTrip(ctx, op, ScanShadowDOMs{}, TypeShadowDOMResults)
	if err != nil {
		return nil, err
	}

	return msg.(ShadowDOMResults).Elements, nil
}

func (c *Client) RequestScan(ctx context.Context) (*entity.ScanReport, error) {
	const op = "RequestScan"

	c.mu.Lock()
	defer c.mu.Unlock()

	msg, err := c.roundTrip(ctx, op, ScanDOM{}, TypeScanDOMResponse)
	if err != nil {
		return nil, err
	}

	resp := msg.(ScanDOMResponse)
	if !resp.Success {
		return nil, apperr.Wrap(op, apperr.CodeActionFailed, errors.New(resp.Error), map[string]any{
			apperr.MetaStage: apperr.StageBridge,
		})
	}

	return resp.Data, nil
}

func (c *Client) roundTrip(ctx context.Context, op string, req Message, want Type) (Message, error) {
	frame, err := Encode(req)
	if err != nil {
		return nil, err
	}

	select {
	case c.ch.requests <- frame:
	case <-ctx.Done():
		return nil, timeout(op, ctx.Err())
	}

	return c.await(ctx, op, want)
}

// await reads responses until one of type want arrives, skipping others.
func (c *Client) await(ctx context.Context, op string, want Type) (Message, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, timeout(op, ctx.Err())
		case frame, ok := <-c.ch.responses:
			if !ok {
				return nil, apperr.WrapErrorWithReason(op, apperr.CodeUnavailable, "channel_closed")
			}

			msg, err := Decode(frame)
			if err != nil {
				c.logger.Debug("Ignoring frame", zap.Error(err))

				continue
			}

			if msg.Type() == TypeInjectedScriptReady {
				c.ready = true
			}

			if msg.Type() == want {
				return msg, nil
			}
		}
	}
}

func timeout(op string, err error) error {
	return apperr.Wrap(op, apperr.CodeTimeout, err, map[string]any{
		apperr.MetaStage:  apperr.StageBridge,
		apperr.MetaReason: "no_response",
	})
}
