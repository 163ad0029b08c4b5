package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/dnaeon/go-vcr.v2/cassette"
	"gopkg.in/dnaeon/go-vcr.v2/recorder"
)

// RedactedSecret replaces secret keys in recorded payloads.
const RedactedSecret = "REDACTED"

// NewVCRRecorder creates a recorder replaying testdata/fixtures/<cassetteName>.yaml.
// Set VCR_MODE=record to capture a fresh cassette against the live API.
func NewVCRRecorder(t *testing.T, cassetteName string) (*recorder.Recorder, func()) {
	t.Helper()

	mode := recorder.ModeReplaying
	if os.Getenv("VCR_MODE") == "record" {
		mode = recorder.ModeRecording
	}

	cassettePath := filepath.Join("testdata", "fixtures", cassetteName)

	r, err := recorder.NewAsMode(cassettePath, mode, nil)
	if err != nil {
		t.Fatalf("Failed to create VCR recorder: %v", err)
	}

	// Every call hits the same endpoint, so interactions are told apart by
	// the action inside the payload.
	r.SetMatcher(func(req *http.Request, i cassette.Request) bool {
		if req.Method != i.Method || req.URL.String() != i.URL {
			return false
		}
		if req.Body == nil {
			return i.Body == ""
		}
		var b bytes.Buffer
		if _, err := b.ReadFrom(req.Body); err != nil {
			return false
		}
		req.Body = io.NopCloser(&b)
		return payloadAction(b.Bytes()) == payloadAction([]byte(i.Body))
	})

	r.AddFilter(func(i *cassette.Interaction) error {
		delete(i.Request.Headers, "Authorization")
		i.Request.Body = redactPayload(i.Request.Body)
		return nil
	})

	cleanup := func() {
		if err := r.Stop(); err != nil {
			t.Errorf("Failed to stop VCR recorder: %v", err)
		}
	}

	return r, cleanup
}

// VCRHTTPClient returns an HTTP client configured to use the VCR recorder
func VCRHTTPClient(r *recorder.Recorder) *http.Client {
	return &http.Client{
		Transport: r,
	}
}

func payloadAction(body []byte) string {
	var p struct {
		API struct {
			Action string `json:"api_action"`
		} `json:"api"`
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return ""
	}
	return p.API.Action
}

// redactPayload blanks the secret keys of a recorded request body.
func redactPayload(body string) string {
	var p map[string]any
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return body
	}
	for _, key := range []string{"user_secret_key", "project_secret_key"} {
		if _, ok := p[key]; ok {
			p[key] = RedactedSecret
		}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return body
	}
	return string(b)
}
