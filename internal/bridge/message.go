// Package bridge carries scan requests across an execution-context boundary
// as JSON frames, the way a page script and an extension script exchange
// posted messages.
package bridge

import (
	"encoding/json"
	"fmt"

	"selector-scanner/internal/entity"
	"selector-scanner/pkg/apperr"
)

type Type string

const (
	TypeScanShadowDOMs      Type = "SCAN_SHADOW_DOMS"
	TypeShadowDOMResults    Type = "SHADOW_DOM_RESULTS"
	TypeInjectedScriptReady Type = "INJECTED_SCRIPT_READY"
	TypeScanDOM             Type = "scanDOM"
	TypeScanDOMResponse     Type = "scanDOMResponse"
)

// Message is implemented only by the message types of this package.
type Message interface {
	Type() Type
	isMessage()
}

// ScanShadowDOMs asks the page context for its shadow root elements.
type ScanShadowDOMs struct{}

// ShadowDOMResults answers ScanShadowDOMs.
type ShadowDOMResults struct {
	Elements []entity.ShadowElementRecord `json:"elements"`
}

// InjectedScriptReady is posted once by a responder when it starts serving.
type InjectedScriptReady struct{}

// ScanDOM asks for a full scan report.
type ScanDOM struct{}

// ScanDOMResponse answers ScanDOM.
type ScanDOMResponse struct {
	Success bool               `json:"success"`
	Data    *entity.ScanReport `json:"data,omitempty"`
	Error   string             `json:"error,omitempty"`
}

func (ScanShadowDOMs) Type() Type      { return TypeScanShadowDOMs }
func (ShadowDOMResults) Type() Type    { return TypeShadowDOMResults }
func (InjectedScriptReady) Type() Type { return TypeInjectedScriptReady }
func (ScanDOM) Type() Type             { return TypeScanDOM }
func (ScanDOMResponse) Type() Type     { return TypeScanDOMResponse }

func (ScanShadowDOMs) isMessage()      {}
func (ShadowDOMResults) isMessage()    {}
func (InjectedScriptReady) isMessage() {}
func (ScanDOM) isMessage()             {}
func (ScanDOMResponse) isMessage()     {}

type envelope struct {
	Type Type `json:"type"`
}

// Encode serializes m with its type tag alongside the payload fields.
func Encode(m Message) ([]byte, error) {
	const op = "Encode"

	var payload any
	switch m := m.(type) {
	case ScanShadowDOMs, InjectedScriptReady, ScanDOM:
		payload = envelope{Type: m.Type()}
	case ShadowDOMResults:
		elements := m.Elements
		if elements == nil {
			elements = []entity.ShadowElementRecord{}
		}

		payload = struct {
			envelope
			Elements []entity.ShadowElementRecord `json:"elements"`
		}{envelope{m.Type()}, elements}
	case ScanDOMResponse:
		payload = struct {
			envelope
			ScanDOMResponse
		}{envelope{m.Type()}, m}
	default:
		return nil, apperr.InvalidReqError(op, "type", fmt.Errorf("unsupported message %T", m))
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaStage: apperr.StageBridge,
		})
	}

	return data, nil
}

// Decode parses a frame produced by Encode. Frames with an unknown type
// fail with CodeInvalidArgument.
func Decode(data []byte) (Message, error) {
	const op = "Decode"

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, apperr.InvalidReqError(op, "frame", err)
	}

	switch env.Type {
	case TypeScanShadowDOMs:
		return ScanShadowDOMs{}, nil
	case TypeInjectedScriptReady:
		return InjectedScriptReady{}, nil
	case TypeScanDOM:
		return ScanDOM{}, nil
	case TypeShadowDOMResults:
		var m ShadowDOMResults
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, apperr.InvalidReqError(op, "elements", err)
		}

		return m, nil
	case TypeScanDOMResponse:
		var m ScanDOMResponse
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, apperr.InvalidReqError(op, "data", err)
		}

		return m, nil
	default:
		return nil, apperr.InvalidReqError(op, "type", fmt.Errorf("unknown message type %q", env.Type))
	}
}
