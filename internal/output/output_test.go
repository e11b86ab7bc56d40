package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"selector-scanner/internal/entity"
	"selector-scanner/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport() *entity.ScanReport {
	testID := "submit-btn"
	records := []entity.ElementRecord{
		{
			TagName:    "button",
			ID:         "submit",
			DataTestID: &testID,
			Context:    entity.ContextMain,
			IsVisible:  true,
			Position:   entity.Position{X: 8, Y: 8, Width: 40, Height: 22},
			Selectors:  []string{`[data-testid="submit-btn"]`, "#submit", "#submit"},
		},
		{TagName: "div", Context: entity.ContextMain, Selectors: []string{"div"}},
	}

	return entity.NewScanReport(records, "https://example.com/", 1700000000000, nil)
}

func TestWrite_JSON(t *testing.T) {
	report := sampleReport()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, report, "json"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "https://example.com/", decoded["url"])
	assert.Equal(t, float64(2), decoded["totalElements"])
	assert.Equal(t, report.ScanID.String(), decoded["scanId"])

	elements := decoded["elements"].([]any)
	require.Len(t, elements, 1)

	el := elements[0].(map[string]any)
	assert.Equal(t, "submit-btn", el["dataTestId"])
	assert.Nil(t, el["ariaLabel"])
	assert.Contains(t, el, "ariaLabel", "absent attributes serialize as null")
	assert.Contains(t, buf.String(), "\n  \"scanId\"")
}

func TestWrite_YAML(t *testing.T) {
	report := sampleReport().WithAll()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, report, "yaml"))

	var decoded struct {
		ScanID        string `yaml:"scanId"`
		TotalElements int    `yaml:"totalElements"`
		Elements      []struct {
			TagName   string   `yaml:"tagName"`
			Selectors []string `yaml:"selectors"`
		} `yaml:"elements"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, report.ScanID.String(), decoded.ScanID)
	assert.Equal(t, 2, decoded.TotalElements)
	require.Len(t, decoded.Elements, 2)
	assert.Equal(t, "div", decoded.Elements[1].TagName)
	assert.Equal(t, []string{"div"}, decoded.Elements[1].Selectors)
}

func TestWrite_ShadowRecordsYAML(t *testing.T) {
	host := "my-widget"
	records := []entity.ShadowElementRecord{{
		ElementRecord: entity.ElementRecord{TagName: "button", Context: entity.ContextShadow, Selectors: []string{"button"}},
		ShadowHost:    &host,
	}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records, "yaml"))

	out := buf.String()
	assert.Contains(t, out, "tagName: button")
	assert.Contains(t, out, "shadowHost: my-widget")
	assert.Contains(t, out, "context: shadow")
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, sampleReport(), "xml")
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}
