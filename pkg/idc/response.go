package idc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// messagePrefix marks messages produced by this client rather than the API.
const messagePrefix = "idc-go: "

const envelopeStatusError = "error"

// Response is the outcome of one operation.
type Response struct {
	// Action is the api_action that was (or would have been) sent.
	Action string

	// Body is the envelope: the verbatim remote body on success, otherwise
	// a locally built error object. It is always set.
	Body []byte

	// StatusCode is the remote HTTP status, or the local error code when no
	// HTTP exchange completed.
	StatusCode int

	// RemoteIP is the peer that answered, empty on pre-response failures.
	RemoteIP string

	// Payload is the structure that was sent, nil when validation failed
	// before it was assembled.
	Payload *Payload

	// PayloadJSON is the serialized Payload.
	PayloadJSON []byte

	// Err is set when Body is an error envelope.
	Err *Error
}

// OK reports whether the response carries the remote success body.
func (r *Response) OK() bool {
	return r.Err == nil
}

// String returns the envelope.
func (r *Response) String() string {
	return string(r.Body)
}

type errorEnvelope struct {
	Status    string      `json:"status"`
	Message   string      `json:"message,omitempty"`
	Code      int         `json:"code,omitempty"`
	APIAction string      `json:"api_action,omitempty"`
	API       envelopeAPI `json:"api"`
}

type envelopeAPI struct {
	Authorization string `json:"api_authorization"`
	Version       string `json:"idc_php_version"`
}

// encodeErrorEnvelope renders e as an error envelope for action.
func encodeErrorEnvelope(e *Error, action, authorization string) []byte {
	env := errorEnvelope{
		Status:    envelopeStatusError,
		Code:      e.Code,
		APIAction: action,
		API: envelopeAPI{
			Authorization: authorization,
			Version:       Version,
		},
	}
	if e.Message != "" {
		env.Message = messagePrefix + e.Message
	}

	b, err := json.Marshal(env)
	if err != nil {
		// Only strings and ints are encoded above.
		panic(fmt.Sprintf("idc: encoding error envelope: %v", err))
	}
	return b
}

// Envelope is a decoded response body, success or error.
type Envelope struct {
	Status    string      `mapstructure:"status"`
	Message   string      `mapstructure:"message"`
	Code      int         `mapstructure:"code"`
	APIAction string      `mapstructure:"api_action"`
	API       EnvelopeAPI `mapstructure:"api"`

	// Data is the record payload of success responses.
	Data any `mapstructure:"data"`

	// Extra holds any other top-level keys.
	Extra map[string]any `mapstructure:",remain"`
}

// EnvelopeAPI echoes the request metadata.
type EnvelopeAPI struct {
	Action        string `mapstructure:"api_action"`
	OutputFormat  string `mapstructure:"api_output_format"`
	Authorization string `mapstructure:"api_authorization"`
	Version       string `mapstructure:"idc_php_version"`
}

// IsError reports whether the envelope describes a failure.
func (e *Envelope) IsError() bool {
	return e.Status == envelopeStatusError
}

// ParseEnvelope decodes a JSON envelope. It fails for XML and base64 output
// formats, which callers handle as opaque bodies.
func ParseEnvelope(body []byte) (*Envelope, error) {
	raw, err := decodeJSONObject(body)
	if err != nil {
		return nil, err
	}

	var env Envelope
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &env,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create envelope decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	return &env, nil
}

func decodeJSONObject(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse response as JSON: %w", err)
	}
	return raw, nil
}

// insertedID extracts data.idc_id_number from an insert_record body.
func insertedID(body []byte) (string, bool) {
	raw, err := decodeJSONObject(body)
	if err != nil {
		return "", false
	}
	data, ok := raw["data"].(map[string]any)
	if !ok {
		return "", false
	}
	id, ok := data["idc_id_number"]
	if !ok || id == nil {
		return "", false
	}
	return fmt.Sprint(id), true
}

// RecordFields converts v into a Fields map. Struct fields are named by
// their mapstructure tag; v may also be a map.
func RecordFields(v any) (Fields, error) {
	var fields map[string]any
	if err := mapstructure.Decode(v, &fields); err != nil {
		return nil, fmt.Errorf("failed to convert record fields: %w", err)
	}
	return Fields(fields), nil
}
