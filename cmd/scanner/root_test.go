package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestFileCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("LOG_LEVEL", "error")

	path := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(path, []byte(`<body><button id="go">Go</button><input type="hidden" name="token"></body>`), 0o600))

	out, err := runCLI(t, "file", path)
	require.NoError(t, err)

	var report struct {
		URL           string `json:"url"`
		TotalElements int    `json:"totalElements"`
		Elements      []struct {
			TagName   string   `json:"tagName"`
			Selectors []string `json:"selectors"`
		} `json:"elements"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Contains(t, report.URL, "page.html")

	var tags []string
	for _, el := range report.Elements {
		tags = append(tags, el.TagName)
	}
	assert.Contains(t, tags, "button")
	assert.NotContains(t, tags, "input")

	all, err := runCLI(t, "file", path, "--all", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, all, "tagName: input")
}

func TestCommandArgs(t *testing.T) {
	_, err := runCLI(t, "scan")
	assert.Error(t, err)

	_, err = runCLI(t, "file", "a.html", "b.html")
	assert.Error(t, err)
}

func TestFileCommand_BadFormat(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LOG_LEVEL", "error")

	_, err := runCLI(t, "file", "page.html", "--format", "xml")
	assert.Error(t, err)
}
