package idc

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

// Version is the client version reported to the API in every payload and
// error envelope.
const Version = "1.3.072"

// configAuthNone spells AuthNone in configuration, where an empty value
// means "use the default".
const configAuthNone = "none"

const (
	DefaultBaseURL  = "https://api.idpack.cloud"
	DefaultResource = "/producer/"
	DefaultTimeout  = 15 * time.Second
)

// Config contains the endpoint and transport settings of a Client.
//
// Example configuration (HCL, see internal/config):
//
//	base_url      = "https://api.idpack.cloud"
//	resource      = "/producer/"
//	authorization = "basic"
//	output_format = "json"
//	timeout       = "15s"
//	tls_verify    = true
type Config struct {
	// BaseURL is the scheme and host of the API.
	// Default: https://api.idpack.cloud
	BaseURL string

	// Resource is the path appended to BaseURL.
	// Default: /producer/
	Resource string

	// Timeout bounds a whole exchange, including reading the body.
	// Default: 15 seconds
	Timeout time.Duration

	// TLSVerify controls certificate and host name verification.
	// Set to false only for development against self-signed endpoints.
	// Default: true
	TLSVerify *bool

	// CAFile is an optional PEM bundle trusted in addition to the system pool.
	CAFile string

	// Authorization is the initial authorization mode: "basic", or "none"
	// to send no HTTP Basic credentials.
	// Default: basic
	Authorization string

	// OutputFormat is the initial output format.
	// Default: json
	OutputFormat string

	// Logger receives client logs (optional).
	Logger hclog.Logger
}

// DefaultConfig returns a Config with the production endpoint and safe
// transport settings.
func DefaultConfig() *Config {
	tlsVerify := true
	return &Config{
		BaseURL:       DefaultBaseURL,
		Resource:      DefaultResource,
		Timeout:       DefaultTimeout,
		TLSVerify:     &tlsVerify,
		Authorization: AuthBasic,
		OutputFormat:  FormatJSON,
	}
}

// applyDefaults fills unset fields from DefaultConfig.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = defaults.BaseURL
	}
	if c.Resource == "" {
		c.Resource = defaults.Resource
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	if c.TLSVerify == nil {
		c.TLSVerify = defaults.TLSVerify
	}
	if c.Authorization == "" {
		c.Authorization = defaults.Authorization
	}
	if c.OutputFormat == "" {
		c.OutputFormat = defaults.OutputFormat
	}
	if c.Logger == nil {
		c.Logger = hclog.NewNullLogger()
	}
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.BaseURL == "" {
		result = multierror.Append(result, fmt.Errorf("base_url is required"))
	} else if parsedURL, err := url.Parse(c.BaseURL); err != nil {
		result = multierror.Append(result, fmt.Errorf("invalid base_url: %w", err))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		result = multierror.Append(result,
			fmt.Errorf("base_url must use http or https scheme, got: %s", parsedURL.Scheme))
	}

	if c.Timeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("timeout must be positive, got: %v", c.Timeout))
	}

	if _, err := validateEnum(c.Authorization, []string{AuthBasic, configAuthNone, ""}); err != nil {
		result = multierror.Append(result, fmt.Errorf("invalid authorization: %q", c.Authorization))
	}

	if _, err := validateEnum(c.OutputFormat, binaryOutputFormats); err != nil {
		result = multierror.Append(result, fmt.Errorf("invalid output_format: %q", c.OutputFormat))
	}

	return result.ErrorOrNil()
}

// authorizationMode maps the configured authorization onto the wire value.
func (c *Config) authorizationMode() string {
	if strings.EqualFold(c.Authorization, configAuthNone) {
		return AuthNone
	}
	return strings.ToLower(c.Authorization)
}

// Endpoint returns the URL every payload is posted to.
func (c *Config) Endpoint() string {
	return c.BaseURL + c.Resource
}

// verifyTLS reports whether certificates are checked.
func (c *Config) verifyTLS() bool {
	return c.TLSVerify == nil || *c.TLSVerify
}

// NewHTTPClient creates the HTTP client used by HTTPTransport.
func (c *Config) NewHTTPClient() (*http.Client, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

	if !c.verifyTLS() {
		tlsConfig.InsecureSkipVerify = true
	}

	if c.CAFile != "" {
		pem, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read ca_file: %w", err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in ca_file %s", c.CAFile)
		}
		tlsConfig.RootCAs = pool
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}, nil
}
