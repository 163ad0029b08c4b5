package idc

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
)

// Transport performs the single HTTP exchange of an operation.
type Transport interface {
	// Post sends req and returns the remote answer. A non-nil error means
	// no HTTP response was obtained.
	Post(ctx context.Context, req *TransportRequest) (*TransportResponse, error)
}

// TransportRequest is one outbound POST.
type TransportRequest struct {
	URL    string
	Body   []byte
	Header http.Header

	// BasicAuth is nil when no HTTP Basic credentials are sent.
	BasicAuth *BasicAuth
}

// BasicAuth carries HTTP Basic credentials.
type BasicAuth struct {
	Username string
	Password string
}

// TransportResponse is what the remote side answered.
type TransportResponse struct {
	StatusCode int
	Body       []byte

	// RemoteIP is the peer address of the connection that served the
	// request, when known.
	RemoteIP string
}

// TransportError is a failure below HTTP: resolution, connection, TLS or
// timeout.
type TransportError struct {
	// Code classifies the failure with curl-compatible numbers.
	Code int
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%v %d", e.Err, e.Code)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Transport failure classes.
const (
	TransportCodeUnknown      = 0
	TransportCodeResolve      = 6
	TransportCodeConnect      = 7
	TransportCodeTimeout      = 28
	TransportCodeTLSHandshake = 35
	TransportCodeCertificate  = 60
)

// classifyTransportError maps err onto a transport failure class.
func classifyTransportError(err error) int {
	var (
		dnsErr      *net.DNSError
		certErr     *tls.CertificateVerificationError
		unknownAuth x509.UnknownAuthorityError
		hostErr     x509.HostnameError
		invalidCert x509.CertificateInvalidError
		recordErr   tls.RecordHeaderError
		netErr      net.Error
		opErr       *net.OpError
	)

	switch {
	case errors.As(err, &dnsErr):
		return TransportCodeResolve
	case errors.As(err, &certErr), errors.As(err, &unknownAuth),
		errors.As(err, &hostErr), errors.As(err, &invalidCert):
		return TransportCodeCertificate
	case errors.As(err, &recordErr):
		return TransportCodeTLSHandshake
	case errors.As(err, &netErr) && netErr.Timeout():
		return TransportCodeTimeout
	case errors.As(err, &opErr) && opErr.Op == "dial":
		return TransportCodeConnect
	default:
		return TransportCodeUnknown
	}
}

// HTTPTransport is the net/http implementation of Transport.
type HTTPTransport struct {
	client *http.Client
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport wraps client. A nil client is rejected.
func NewHTTPTransport(client *http.Client) (*HTTPTransport, error) {
	if client == nil {
		return nil, errors.New("http client is required")
	}
	return &HTTPTransport{client: client}, nil
}

// Post executes req as an HTTP POST.
func (t *HTTPTransport) Post(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	var remoteIP string
	trace := &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			if info.Conn == nil {
				return
			}
			host, _, err := net.SplitHostPort(info.Conn.RemoteAddr().String())
			if err == nil {
				remoteIP = host
			}
		},
	}
	ctx = httptrace.WithClientTrace(ctx, trace)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, &TransportError{Code: TransportCodeUnknown, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	for name, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}
	httpReq.ContentLength = int64(len(req.Body))

	if req.BasicAuth != nil {
		httpReq.SetBasicAuth(req.BasicAuth.Username, req.BasicAuth.Password)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Code: classifyTransportError(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Code: classifyTransportError(err), Err: fmt.Errorf("failed to read response: %w", err)}
	}

	return &TransportResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
		RemoteIP:   remoteIP,
	}, nil
}

// requestHeader returns the fixed headers of every exchange. net/http writes
// Content-Length from the request body length.
func requestHeader() http.Header {
	h := make(http.Header)
	h.Set("Accept-Language", "en-US")
	h.Set("Accept", "application/json")
	h.Set("Content-Type", "application/json")
	return h
}
