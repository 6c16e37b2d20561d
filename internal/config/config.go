// ABOUTME: Configuration loading and parsing for startup-mcp
// ABOUTME: Supports YAML/TOML files, .env files, environment overrides, and struct validation

package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Defaults
const (
	DefaultHost           = "0.0.0.0"
	DefaultPort           = 8086
	DefaultFetchTimeout   = 30 * time.Second
	DefaultUserAgent      = "Puch/1.0 (Autonomous)"
	DefaultSearchEndpoint = "https://html.duckduckgo.com/html/"
	DefaultMaxResults     = 5
	DefaultEndpointPath   = "/mcp"

	// EnvConfigPath names the config file when -config is not given.
	EnvConfigPath = "STARTUP_MCP_CONFIG"
)

// Config represents the complete startup-mcp configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Auth    AuthConfig    `yaml:"auth" toml:"auth"`
	Owner   OwnerConfig   `yaml:"owner" toml:"owner"`
	Fetch   FetchConfig   `yaml:"fetch" toml:"fetch"`
	Search  SearchConfig  `yaml:"search" toml:"search"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	Demo    DemoConfig    `yaml:"demo" toml:"demo"`
}

// ServerConfig holds the HTTP listener configuration
type ServerConfig struct {
	Host         string `yaml:"host" toml:"host" validate:"required"`
	Port         int    `yaml:"port" toml:"port" validate:"min=1,max=65535"`
	EndpointPath string `yaml:"endpoint_path" toml:"endpoint_path" validate:"required,startswith=/"`
}

// AuthConfig holds bearer authentication configuration
type AuthConfig struct {
	Token     string `yaml:"token" toml:"token" validate:"required"`
	JWTSecret string `yaml:"jwt_secret" toml:"jwt_secret" validate:"omitempty,min=32"`
}

// OwnerConfig identifies the server owner to the calling platform
type OwnerConfig struct {
	Phone string `yaml:"phone" toml:"phone" validate:"required"`
}

// FetchConfig holds outbound fetch settings
type FetchConfig struct {
	Timeout    time.Duration `yaml:"-" toml:"-"`
	TimeoutRaw string        `yaml:"timeout" toml:"timeout"`
	UserAgent  string        `yaml:"user_agent" toml:"user_agent" validate:"required"`
}

// SearchConfig holds web search settings
type SearchConfig struct {
	Endpoint   string `yaml:"endpoint" toml:"endpoint" validate:"required,url"`
	MaxResults int    `yaml:"max_results" toml:"max_results" validate:"min=1,max=50"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" toml:"format" validate:"oneof=text json"`
}

// DemoConfig toggles the browser demo
type DemoConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// envOverrides are flat environment variables applied over file values.
type envOverrides struct {
	AuthToken    string        `envconfig:"AUTH_TOKEN"`
	MyNumber     string        `envconfig:"MY_NUMBER"`
	Host         string        `envconfig:"HOST"`
	Port         string        `envconfig:"PORT"`
	JWTSecret    string        `envconfig:"JWT_SECRET"`
	LogLevel     string        `envconfig:"LOG_LEVEL"`
	LogFormat    string        `envconfig:"LOG_FORMAT"`
	FetchTimeout string        `envconfig:"FETCH_TIMEOUT"`
	DemoEnabled  string        `envconfig:"DEMO_ENABLED"`
}

// Default returns a Config with every default applied and no secrets.
func Default() Config {
	return Config{
		Server: ServerConfig{Host: DefaultHost, Port: DefaultPort, EndpointPath: DefaultEndpointPath},
		Fetch:  FetchConfig{Timeout: DefaultFetchTimeout, UserAgent: DefaultUserAgent},
		Search: SearchConfig{Endpoint: DefaultSearchEndpoint, MaxResults: DefaultMaxResults},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Demo: DemoConfig{Enabled: true},
	}
}

// Load builds the configuration: defaults, then the file at path (if any),
// then environment overrides. A .env file in the working directory is read
// first unless ENV is production.
// Environment variables in the format ${VAR_NAME} are expanded in the file.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
		if err := parseDurations(&cfg); err != nil {
			return nil, fmt.Errorf("parsing durations: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// ResolvePath picks the config file: the explicit flag, then
// STARTUP_MCP_CONFIG, then $XDG_CONFIG_HOME/startup-mcp/config.yaml when it
// exists. An empty result means defaults and environment only.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}

	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	p := filepath.Join(dir, "startup-mcp", "config.yaml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

func loadDotEnv() error {
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "production" || env == "prod" {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return fmt.Errorf("parsing config file: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return fmt.Errorf("parsing config file: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q", ext)
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.Fetch.TimeoutRaw == "" {
		return nil
	}
	d, err := time.ParseDuration(cfg.Fetch.TimeoutRaw)
	if err != nil {
		return fmt.Errorf("parsing fetch.timeout %q: %w", cfg.Fetch.TimeoutRaw, err)
	}
	cfg.Fetch.Timeout = d
	return nil
}

// applyEnv overlays environment overrides. Empty values count as unset, so a
// blank PORT= line in .env keeps the default.
func applyEnv(cfg *Config) error {
	var o envOverrides
	if err := envconfig.Process("", &o); err != nil {
		return err
	}

	if o.AuthToken != "" {
		cfg.Auth.Token = o.AuthToken
	}
	if o.MyNumber != "" {
		cfg.Owner.Phone = o.MyNumber
	}
	if o.Host != "" {
		cfg.Server.Host = o.Host
	}
	if o.Port != "" {
		port, err := strconv.Atoi(strings.TrimSpace(o.Port))
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if o.JWTSecret != "" {
		cfg.Auth.JWTSecret = o.JWTSecret
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = strings.ToLower(o.LogLevel)
	}
	if o.LogFormat != "" {
		cfg.Logging.Format = strings.ToLower(o.LogFormat)
	}
	if o.FetchTimeout != "" {
		d, err := time.ParseDuration(strings.TrimSpace(o.FetchTimeout))
		if err != nil {
			return fmt.Errorf("FETCH_TIMEOUT: %w", err)
		}
		cfg.Fetch.Timeout = d
	}
	if o.DemoEnabled != "" {
		enabled, err := strconv.ParseBool(o.DemoEnabled)
		if err != nil {
			return fmt.Errorf("DEMO_ENABLED: %w", err)
		}
		cfg.Demo.Enabled = enabled
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	return errors.New(describe(verrs[0]))
}

func describe(fe validator.FieldError) string {
	// Namespace is "Config.section.field"; drop the root type.
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "max":
		return fmt.Sprintf("%s is out of range (%s=%s)", field, fe.Tag(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "url":
		return field + " must be a valid URL"
	case "startswith":
		return fmt.Sprintf("%s must start with %q", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
