// Package output serializes scan results.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"selector-scanner/internal/config"
	"selector-scanner/pkg/apperr"

	"gopkg.in/yaml.v3"
)

const yamlIndent = 2

// Write encodes v to w in the given format. JSON is indented.
func Write(w io.Writer, v any, format string) error {
	const op = "output.Write"

	var err error

	switch format {
	case config.FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(v)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(yamlIndent)
		err = enc.Encode(v)
		if err == nil {
			err = enc.Close()
		}
	default:
		return apperr.InvalidReqError(op, "format", fmt.Errorf("unsupported format %q", format))
	}

	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaStage: apperr.StageOutput,
		})
	}

	return nil
}
