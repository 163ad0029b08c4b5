package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Envelope renderings accepted by -output.
const (
	outputRaw  = "raw"
	outputJSON = "json"
	outputYAML = "yaml"
)

// render formats an envelope for display. Bodies that are not JSON (xml or
// base64 output formats) are always printed as received.
func render(body []byte, output string) (string, error) {
	switch strings.ToLower(output) {
	case outputRaw, "":
		return string(body), nil

	case outputJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err != nil {
			return string(body), nil
		}
		return buf.String(), nil

	case outputYAML:
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return string(body), nil
		}
		out, err := yaml.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("error rendering yaml: %w", err)
		}
		return strings.TrimSuffix(string(out), "\n"), nil

	default:
		return "", fmt.Errorf("invalid output %q: must be raw, json or yaml", output)
	}
}
