package cdp

import (
	"context"
	"testing"

	"selector-scanner/internal/config"
	"selector-scanner/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ysmood/gson"
	"go.uber.org/zap"
)

func TestDriver_NotReady(t *testing.T) {
	d := NewDriver(Params{
		Config: &config.Config{
			AppConfig:     &config.AppConfig{},
			BrowserConfig: &config.BrowserConfig{Driver: config.DriverRod, Headless: true, Timeout: 1000},
			ScanConfig:    &config.ScanConfig{},
		},
		Logger: zap.NewNop(),
	})

	assert.False(t, d.IsReady())

	err := d.Navigate(context.Background(), "https://example.com")
	assert.Equal(t, apperr.CodeBrowserNotReady, apperr.CodeOf(err))

	_, err = d.Snapshot(context.Background())
	assert.Equal(t, apperr.CodeBrowserNotReady, apperr.CodeOf(err))

	require.NoError(t, d.Close(context.Background()))
}

func TestDecodeValue(t *testing.T) {
	v := gson.New(map[string]interface{}{
		"url": "https://example.com/",
		"children": []interface{}{
			map[string]interface{}{
				"tag":        "a",
				"attrs":      map[string]interface{}{"href": "/docs"},
				"rect":       map[string]interface{}{"x": 0, "y": 0, "width": 40, "height": 12},
				"display":    "inline",
				"visibility": "visible",
				"children":   []interface{}{map[string]interface{}{"tag": "#text", "value": "Docs"}},
			},
		},
	})

	doc, err := decodeValue(v)
	require.NoError(t, err)
	require.Len(t, doc.Elements(), 1)

	link := doc.Elements()[0]
	assert.Equal(t, "a", link.TagName())
	assert.Equal(t, "Docs", link.TextContent())
	assert.Equal(t, 40.0, link.Box().Width)
}

func TestDecodeValue_Rejects(t *testing.T) {
	_, err := decodeValue(gson.New(nil))
	assert.Error(t, err)

	_, err = decodeValue(gson.New("text"))
	assert.ErrorContains(t, err, "want object")
}
