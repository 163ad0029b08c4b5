package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/idpack-cloud/idc-go/pkg/idc"
)

// Config is the CLI configuration file.
//
// Example:
//
//	username           = "api-user"
//	password           = env("IDC_PASSWORD")
//	user_secret_key    = env("IDC_USER_SECRET_KEY")
//	project_secret_key = env("IDC_PROJECT_SECRET_KEY")
//	output_format      = "json"
//	log_level          = "warn"
//
//	endpoint {
//	  base_url   = "https://api.idpack.cloud"
//	  timeout    = "30s"
//	  tls_verify = true
//	}
type Config struct {
	// Username and Password are the HTTP Basic credentials.
	Username string `hcl:"username,optional"`
	Password string `hcl:"password,optional"`

	// UserSecretKey and ProjectSecretKey are sent in every payload.
	UserSecretKey    string `hcl:"user_secret_key,optional"`
	ProjectSecretKey string `hcl:"project_secret_key,optional"`

	// Authorization is "basic" (default) or "none".
	Authorization string `hcl:"authorization,optional"`

	// OutputFormat is json (default), xml or base64.
	OutputFormat string `hcl:"output_format,optional"`

	// LogLevel is an hclog level name. Default: warn
	LogLevel string `hcl:"log_level,optional"`

	// Endpoint overrides the API location and transport settings.
	Endpoint *Endpoint `hcl:"endpoint,block"`
}

// Endpoint configures where and how requests are sent.
type Endpoint struct {
	BaseURL   string `hcl:"base_url,optional"`
	Resource  string `hcl:"resource,optional"`
	Timeout   string `hcl:"timeout,optional"` // e.g., "15s"
	TLSVerify *bool  `hcl:"tls_verify,optional"`
	CAFile    string `hcl:"ca_file,optional"`
}

// DefaultLogLevel is used when log_level is not set.
const DefaultLogLevel = "warn"

// EnvFunc is the env("NAME") function available in configuration files. It
// fails when the variable is not set.
var EnvFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		name := args[0].AsString()
		value, ok := os.LookupEnv(name)
		if !ok {
			return cty.NilVal, fmt.Errorf("environment variable %q is not set", name)
		}
		return cty.StringVal(value), nil
	},
})

// NewConfig loads filename from the operating system file system.
func NewConfig(filename string) (*Config, error) {
	return Load(afero.NewOsFs(), filename)
}

// Load reads and decodes the HCL configuration at filename from fs.
func Load(fs afero.Fs, filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration file path is required")
	}

	src, err := afero.ReadFile(fs, filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", filename)
		}
		return nil, fmt.Errorf("error reading configuration file: %w", err)
	}

	ctx := &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env": EnvFunc,
		},
	}

	var cfg Config
	if err := hclsimple.Decode(filename, src, ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings that cannot be checked by idc.Config.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.UserSecretKey == "" {
		result = multierror.Append(result, fmt.Errorf("user_secret_key is required"))
	}
	if c.ProjectSecretKey == "" {
		result = multierror.Append(result, fmt.Errorf("project_secret_key is required"))
	}
	if !strings.EqualFold(c.Authorization, "none") && c.Username == "" {
		result = multierror.Append(result, fmt.Errorf("username is required with basic authorization"))
	}
	if c.LogLevel != "" && hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		result = multierror.Append(result, fmt.Errorf("invalid log_level: %q", c.LogLevel))
	}
	if c.Endpoint != nil && c.Endpoint.Timeout != "" {
		if _, err := time.ParseDuration(c.Endpoint.Timeout); err != nil {
			result = multierror.Append(result, fmt.Errorf("invalid endpoint timeout: %w", err))
		}
	}

	return result.ErrorOrNil()
}

// Level returns the configured log level.
func (c *Config) Level() hclog.Level {
	if level := hclog.LevelFromString(c.LogLevel); level != hclog.NoLevel {
		return level
	}
	return hclog.LevelFromString(DefaultLogLevel)
}

// Credentials returns the client credentials.
func (c *Config) Credentials() idc.Credentials {
	return idc.Credentials{
		Username:         c.Username,
		Password:         c.Password,
		UserSecretKey:    c.UserSecretKey,
		ProjectSecretKey: c.ProjectSecretKey,
	}
}

// ClientConfig converts the file into a client configuration. Unset values
// keep the client defaults.
func (c *Config) ClientConfig(logger hclog.Logger) (*idc.Config, error) {
	cfg := idc.DefaultConfig()
	cfg.Logger = logger

	if c.Authorization != "" {
		cfg.Authorization = c.Authorization
	}
	if c.OutputFormat != "" {
		cfg.OutputFormat = c.OutputFormat
	}

	if e := c.Endpoint; e != nil {
		if e.BaseURL != "" {
			cfg.BaseURL = strings.TrimSuffix(e.BaseURL, "/")
		}
		if e.Resource != "" {
			cfg.Resource = e.Resource
		}
		if e.Timeout != "" {
			timeout, err := time.ParseDuration(e.Timeout)
			if err != nil {
				return nil, fmt.Errorf("invalid endpoint timeout: %w", err)
			}
			cfg.Timeout = timeout
		}
		if e.TLSVerify != nil {
			cfg.TLSVerify = e.TLSVerify
		}
		cfg.CAFile = e.CAFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
