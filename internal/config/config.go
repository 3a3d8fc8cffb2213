package config

import (
	"encoding/json"
	stderrors "errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/routepath"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vroute.json"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultNavigationTimeout bounds server-side navigations.
	DefaultNavigationTimeout = "10s"
)

// Module sources.
const (
	SourceEmbed = "embed"
	SourceFS    = "fs"
	SourceS3    = "s3"
)

// Config represents the complete vroute.json configuration.
type Config struct {
	// Name is the application name.
	Name string `json:"name,omitempty"`

	// Base is the URL prefix the app is served under, e.g. "/app".
	Base string `json:"base,omitempty"`

	// Host is the interface to bind to. Empty binds all interfaces.
	Host string `json:"host,omitempty"`

	// Port is the server port.
	Port int `json:"port,omitempty"`

	// Metrics exposes Prometheus metrics on /metrics.
	Metrics bool `json:"metrics,omitempty"`

	// NavigationTimeout bounds server-side page navigations (e.g., "10s").
	NavigationTimeout string `json:"navigationTimeout,omitempty"`

	// Modules configures where deferred view modules are fetched from.
	Modules ModulesConfig `json:"modules,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ModulesConfig configures the deferred view module source.
type ModulesConfig struct {
	// Source is one of "embed" (default), "fs" or "s3".
	Source string `json:"source,omitempty"`

	// Dir is the module directory for the fs source, relative to the
	// config file.
	Dir string `json:"dir,omitempty"`

	// S3 configures the s3 source.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config locates view modules in an S3 bucket.
type S3Config struct {
	Bucket   string `json:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	Region   string `json:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`

	// Credentials are normally supplied through the environment and are
	// never written to vroute.json.
	AccessKey string `json:"-"`
	SecretKey string `json:"-"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		Port:              DefaultPort,
		NavigationTimeout: DefaultNavigationTimeout,
		Modules: ModulesConfig{
			Source: SourceEmbed,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for vroute.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No vroute.json found in " + filepath.Dir(path)).
				WithSuggestion("Create vroute.json or run vroute without a config to use the defaults")
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		ve := errors.New("E101").
			Wrap(err).
			WithSuggestion("Check that vroute.json is valid JSON")
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case stderrors.As(err, &syntaxErr):
			ve.WithOffset(path, data, syntaxErr.Offset)
		case stderrors.As(err, &typeErr):
			ve.WithOffset(path, data, typeErr.Offset)
		default:
			ve.WithLocation(path, 0, 0)
		}
		return nil, ve
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E101").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E101").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.NavigationTimeout == "" {
		c.NavigationTimeout = DefaultNavigationTimeout
	}
	if c.Modules.Source == "" {
		c.Modules.Source = SourceEmbed
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return c.locate(errors.New("E103").
			WithDetail("Port must be between 1 and 65535, got " + strconv.Itoa(c.Port)))
	}
	if _, err := routepath.NormalizeBase(c.Base); err != nil {
		return c.locate(errors.New("E104").
			Wrap(err).
			WithSuggestion(`Use a clean absolute prefix such as "/app", or "" for the root`))
	}
	if _, err := c.NavigationTimeoutDuration(); err != nil {
		return c.locate(errors.New("E107").Wrap(err))
	}

	switch c.Modules.Source {
	case SourceEmbed:
	case SourceFS:
		if c.Modules.Dir == "" {
			return c.locate(errors.New("E106").
				WithSuggestion("Set modules.dir or VROUTE_MODULES_DIR"))
		}
	case SourceS3:
		if c.Modules.S3.Bucket == "" {
			return c.locate(errors.New("E106").
				WithSuggestion("Set modules.s3.bucket or VROUTE_MODULES_BUCKET"))
		}
	default:
		return c.locate(errors.New("E105").
			WithDetail(`modules.source must be one of "embed", "fs" or "s3", got "` + c.Modules.Source + `"`))
	}
	return nil
}

// locate points a validation error at the config file, when there is one.
func (c *Config) locate(e *errors.Error) *errors.Error {
	if c.configPath != "" {
		e.WithLocation(c.configPath, 0, 0)
	}
	return e
}

// Address returns the listen address.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// NavigationTimeoutDuration parses NavigationTimeout. Zero means the
// server default.
func (c *Config) NavigationTimeoutDuration() (time.Duration, error) {
	if c.NavigationTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.NavigationTimeout)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, stderrors.New("negative duration " + c.NavigationTimeout)
	}
	return d, nil
}

// ModulesDir returns the fs module directory, resolved against the
// directory holding the config file.
func (c *Config) ModulesDir() string {
	if c.Modules.Dir == "" || filepath.IsAbs(c.Modules.Dir) {
		return c.Modules.Dir
	}
	return filepath.Join(c.Dir(), c.Modules.Dir)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing vroute.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E100").
				WithDetail("No vroute.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
