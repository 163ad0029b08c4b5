package idc

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutError struct{}

func (timeoutError) Error() string { return "i/o timeout" }
func (timeoutError) Timeout() bool { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassifyTransportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "DNS",
			err:  &url.Error{Op: "Post", URL: "https://nope.invalid", Err: &net.DNSError{Err: "no such host", Name: "nope.invalid"}},
			want: TransportCodeResolve,
		},
		{
			name: "Connection refused",
			err:  &url.Error{Op: "Post", Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}},
			want: TransportCodeConnect,
		},
		{
			name: "Timeout",
			err:  &url.Error{Op: "Post", Err: timeoutError{}},
			want: TransportCodeTimeout,
		},
		{
			name: "Unknown authority",
			err:  &url.Error{Op: "Post", Err: &tls.CertificateVerificationError{Err: x509.UnknownAuthorityError{}}},
			want: TransportCodeCertificate,
		},
		{
			name: "Host name mismatch",
			err:  fmt.Errorf("handshake: %w", x509.HostnameError{Host: "api.idpack.cloud"}),
			want: TransportCodeCertificate,
		},
		{
			name: "Plain HTTP answer to TLS",
			err:  &url.Error{Op: "Post", Err: tls.RecordHeaderError{Msg: "first record does not look like a TLS handshake"}},
			want: TransportCodeTLSHandshake,
		},
		{
			name: "Other",
			err:  errors.New("something else"),
			want: TransportCodeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyTransportError(tt.err))
		})
	}
}

func TestTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &TransportError{Code: TransportCodeConnect, Err: cause}

	assert.Equal(t, "connection refused 7", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestNewHTTPTransport(t *testing.T) {
	_, err := NewHTTPTransport(nil)
	require.Error(t, err)

	tr, err := NewHTTPTransport(defaultHTTPClient(t))
	require.NoError(t, err)
	assert.NotNil(t, tr)
}

func TestHTTPTransport_BadURL(t *testing.T) {
	tr, err := NewHTTPTransport(defaultHTTPClient(t))
	require.NoError(t, err)

	_, err = tr.Post(context.Background(), &TransportRequest{URL: "://missing-scheme", Header: requestHeader()})
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, TransportCodeUnknown, te.Code)
}

func defaultHTTPClient(t *testing.T) *http.Client {
	t.Helper()
	client, err := DefaultConfig().NewHTTPClient()
	require.NoError(t, err)
	return client
}
