package idc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Credentials authenticate a Client. Username and Password are only used
// for HTTP Basic authorization; the secret keys travel in every payload.
type Credentials struct {
	Username         string
	Password         string
	UserSecretKey    string
	ProjectSecretKey string
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the HTTP transport, typically with a test double.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithHTTPClient sends requests through httpClient instead of one built
// from the Config.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.transport = &HTTPTransport{client: httpClient}
		}
	}
}

// WithLogger sets the logger, overriding Config.Logger.
func WithLogger(logger hclog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client talks to the producer endpoint. Every operation performs at most one
// blocking HTTP exchange and always returns an envelope.
//
// A Client keeps the side-state of its most recent call and is not safe for
// concurrent use. Use one Client per goroutine or serialize access.
type Client struct {
	config        *Config
	creds         Credentials
	outputFormat  string
	authorization string
	transport     Transport
	logger        hclog.Logger

	lastRemoteIP    string
	lastHTTPCode    int
	lastInsertID    string
	lastPayload     *Payload
	lastPayloadJSON []byte
}

// New creates a Client. A nil cfg uses DefaultConfig. The transport is built
// lazily on the first operation; see CodeTransportInit.
func New(creds Credentials, cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	// Copy so defaults don't leak into the caller's value.
	config := *cfg
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	outputFormat, _ := validateEnum(config.OutputFormat, binaryOutputFormats)

	c := &Client{
		config:        &config,
		creds:         creds,
		outputFormat:  outputFormat,
		authorization: config.authorizationMode(),
		logger:        config.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("idc")

	if !config.verifyTLS() {
		c.logger.Warn("TLS certificate verification is disabled", "base_url", config.BaseURL)
	}

	return c, nil
}

// SetUsername sets the HTTP Basic user name.
func (c *Client) SetUsername(username string) { c.creds.Username = username }

// SetPassword sets the HTTP Basic password.
func (c *Client) SetPassword(password string) { c.creds.Password = password }

// SetUserSecretKey sets the user secret key sent in every payload.
func (c *Client) SetUserSecretKey(key string) { c.creds.UserSecretKey = key }

// SetProjectSecretKey sets the project secret key sent in every payload.
func (c *Client) SetProjectSecretKey(key string) { c.creds.ProjectSecretKey = key }

// SetOutputFormat selects json, xml or base64 (case-insensitive). It returns
// false and keeps the current format when the value is unknown. Whether the
// format suits an action is checked when the action runs.
func (c *Client) SetOutputFormat(format string) bool {
	normalized, err := validateEnum(format, binaryOutputFormats)
	if err != nil {
		return false
	}
	c.outputFormat = normalized
	return true
}

// SetAuthorization selects "basic" or "" (no HTTP Basic credentials). It
// returns false and keeps the current mode when the value is unknown.
func (c *Client) SetAuthorization(mode string) bool {
	normalized, err := validateEnum(mode, authorizationModes)
	if err != nil {
		return false
	}
	c.authorization = normalized
	return true
}

// OutputFormat returns the current output format.
func (c *Client) OutputFormat() string { return c.outputFormat }

// Authorization returns the current authorization mode.
func (c *Client) Authorization() string { return c.authorization }

// LastRemoteIP returns the peer IP of the most recent exchange.
func (c *Client) LastRemoteIP() string { return c.lastRemoteIP }

// LastHTTPCode returns the HTTP status of the most recent call, or its local
// error code when it failed before or after the exchange.
func (c *Client) LastHTTPCode() int { return c.lastHTTPCode }

// LastInsertID returns the idc_id_number of the most recent successful
// insert.
func (c *Client) LastInsertID() string { return c.lastInsertID }

// LastPayloadJSON returns the serialized payload of the most recent call.
func (c *Client) LastPayloadJSON() []byte { return bytes.Clone(c.lastPayloadJSON) }

// LastPayload returns a copy of the payload of the most recent call, or nil
// when that call failed validation.
func (c *Client) LastPayload() *Payload {
	if c.lastPayload == nil {
		return nil
	}
	p := *c.lastPayload
	return &p
}

// Execute sends a caller-assembled payload. Credentials and request metadata
// are filled in on p. A nil payload or one without an action is rejected with
// CodeEmptyPayload.
func (c *Client) Execute(ctx context.Context, p *Payload) *Response {
	return c.send(ctx, p)
}

// send runs the shared pipeline: output format check, stamping,
// serialization, the exchange, and response mapping.
func (c *Client) send(ctx context.Context, p *Payload) (resp *Response) {
	if p == nil || p.API.Action == "" {
		return c.reject("", nil, newError(CodeEmptyPayload, "payload can't be empty!"))
	}
	action := p.API.Action

	if err := validateOutputFormat(action, c.outputFormat); err != nil {
		return c.reject(action, p, err)
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("unexpected failure during exchange", "action", action, "panic", r)
			resp = c.reject(action, p, newError(CodeInternal, "caught exception: %v", r))
		}
	}()

	p.stamp(c.creds, c.outputFormat, c.authorization)

	body, err := p.encode()
	if err != nil {
		return c.reject(action, p, wrapError(CodeInternal, err, "caught exception: %v", err))
	}

	transport, err := c.getTransport()
	if err != nil {
		c.logger.Error("failed to initialize transport", "error", err)
		return c.fail(&Response{Action: action, Payload: p, PayloadJSON: body},
			wrapError(CodeTransportInit, err, "failed to initialize HTTP transport"))
	}

	logger := c.logger.With("action", action, "request_id", uuid.NewString())
	logger.Debug("sending request",
		"url", c.config.Endpoint(),
		"payload_bytes", len(body),
		"authorization", c.authorization,
	)

	req := &TransportRequest{
		URL:    c.config.Endpoint(),
		Body:   body,
		Header: requestHeader(),
	}
	if c.authorization == AuthBasic {
		req.BasicAuth = &BasicAuth{Username: c.creds.Username, Password: c.creds.Password}
	}

	tr, err := transport.Post(ctx, req)
	if err != nil {
		logger.Warn("transport failure", "error", err)
		return c.fail(&Response{Action: action, Payload: p, PayloadJSON: body}, transportFailure(err))
	}

	resp = c.mapResponse(&Response{
		Action:      action,
		Payload:     p,
		PayloadJSON: body,
		StatusCode:  tr.StatusCode,
		RemoteIP:    tr.RemoteIP,
	}, tr.Body)

	if resp.OK() {
		logger.Debug("request succeeded", "status", resp.StatusCode, "remote_ip", resp.RemoteIP)
	} else {
		logger.Warn("request failed", "code", resp.Err.Code, "remote_ip", resp.RemoteIP)
	}
	return resp
}

// getTransport returns the transport, building the default one on first use.
func (c *Client) getTransport() (Transport, error) {
	if c.transport != nil {
		return c.transport, nil
	}
	httpClient, err := c.config.NewHTTPClient()
	if err != nil {
		return nil, err
	}
	t, err := NewHTTPTransport(httpClient)
	if err != nil {
		return nil, err
	}
	c.transport = t
	return t, nil
}

// mapResponse turns an HTTP answer into the final envelope.
func (c *Client) mapResponse(resp *Response, body []byte) *Response {
	if resp.StatusCode != http.StatusOK {
		return c.fail(resp, statusError(resp.StatusCode))
	}
	if len(body) == 0 {
		return c.fail(resp, newError(CodeEmptyResponse, "Response is empty!"))
	}

	resp.Body = body
	if resp.Action == ActionInsertRecord {
		if id, ok := insertedID(body); ok {
			c.lastInsertID = id
		}
	}
	c.record(resp)
	return resp
}

// reject fails an operation before any exchange took place.
func (c *Client) reject(action string, p *Payload, e *Error) *Response {
	return c.fail(&Response{Action: action, Payload: p}, e)
}

// fail turns resp into an error envelope for e and records it.
func (c *Client) fail(resp *Response, e *Error) *Response {
	resp.Err = e
	resp.StatusCode = e.Code
	resp.Body = encodeErrorEnvelope(e, resp.Action, c.authorization)
	c.record(resp)
	return resp
}

// record stores the side-state of resp.
func (c *Client) record(resp *Response) {
	c.lastRemoteIP = resp.RemoteIP
	c.lastHTTPCode = resp.StatusCode
	c.lastPayload = resp.Payload
	c.lastPayloadJSON = resp.PayloadJSON
}

// transportFailure builds the envelope error of a failed exchange.
func transportFailure(err error) *Error {
	var te *TransportError
	if !errors.As(err, &te) {
		te = &TransportError{Code: classifyTransportError(err), Err: err}
	}
	return wrapError(CodeTransportFailure, err, "HTTP transport error: %v", te)
}
