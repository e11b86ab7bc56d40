package bridge

import (
	"testing"

	"selector-scanner/internal/entity"
	"selector-scanner/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_WireShape(t *testing.T) {
	data, err := Encode(ScanShadowDOMs{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"SCAN_SHADOW_DOMS"}`, string(data))

	data, err = Encode(ShadowDOMResults{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"SHADOW_DOM_RESULTS","elements":[]}`, string(data))

	data, err = Encode(ScanDOMResponse{Success: false, Error: "boom"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"scanDOMResponse","success":false,"error":"boom"}`, string(data))
}

func TestDecode_ShadowResults(t *testing.T) {
	host := "x-card"
	in := ShadowDOMResults{Elements: []entity.ShadowElementRecord{{
		ElementRecord: entity.ElementRecord{
			TagName:   "button",
			Context:   entity.ContextShadow,
			IsVisible: true,
			Selectors: []string{"button"},
		},
		ShadowHost: &host,
	}}}

	data, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(data)
	require.NoError(t, err)

	results, ok := out.(ShadowDOMResults)
	require.True(t, ok)
	require.Len(t, results.Elements, 1)
	assert.Equal(t, "button", results.Elements[0].TagName)
	assert.Equal(t, "x-card", *results.Elements[0].ShadowHost)
}

func TestDecode_Requests(t *testing.T) {
	tests := map[string]Type{
		`{"type":"SCAN_SHADOW_DOMS"}`:      TypeScanShadowDOMs,
		`{"type":"INJECTED_SCRIPT_READY"}`: TypeInjectedScriptReady,
		`{"type":"scanDOM"}`:               TypeScanDOM,
	}

	for frame, want := range tests {
		msg, err := Decode([]byte(frame))
		require.NoError(t, err, frame)
		assert.Equal(t, want, msg.Type())
	}
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte(`{"type":"SOMETHING_ELSE"}`))
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	_, err = Decode([]byte(`not json`))
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	_, err = Decode([]byte(`{"type":"SHADOW_DOM_RESULTS","elements":{}}`))
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}
