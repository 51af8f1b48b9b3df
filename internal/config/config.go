package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vbind/internal/errors"
)

// Config file names, in lookup order.
const (
	YAMLFileName = "vbind.yaml"
	JSONFileName = "vbind.json"
)

const (
	// DefaultTemplate is the component markup file.
	DefaultTemplate = "component.html"

	// DefaultAddr is the live server listen address.
	DefaultAddr = "localhost:7300"

	// DefaultLivePath is the websocket route of the live server.
	DefaultLivePath = "/_vbind/live"

	// DefaultNamespace is the Prometheus namespace.
	DefaultNamespace = "vbind"

	// DefaultLogLevel is the slog level name.
	DefaultLogLevel = "info"
)

// Config represents a vbind.yaml or vbind.json project file.
type Config struct {
	// Template is the component markup file, relative to the config file.
	Template string `yaml:"template,omitempty" json:"template,omitempty"`

	// Data is the initial data file (YAML or JSON), relative to the config
	// file. Optional.
	Data string `yaml:"data,omitempty" json:"data,omitempty"`

	// Live contains live server configuration.
	Live LiveConfig `yaml:"live,omitempty" json:"live,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `yaml:"metrics,omitempty" json:"metrics,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `yaml:"log,omitempty" json:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LiveConfig contains live server settings.
type LiveConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr,omitempty" json:"addr,omitempty"`

	// Path is the websocket route.
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled registers scheduler metrics and serves /metrics.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace,omitempty" json:"namespace,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level,omitempty" json:"level,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Template: DefaultTemplate,
		Live: LiveConfig{
			Addr: DefaultAddr,
			Path: DefaultLivePath,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Load reads configuration from dir, preferring vbind.yaml over vbind.json.
func Load(dir string) (*Config, error) {
	for _, name := range []string{YAMLFileName, JSONFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New(errors.CodeConfigRead).
		WithDetail("No " + YAMLFileName + " or " + JSONFileName + " found in " + dir).
		WithSuggestion("Create vbind.yaml with at least a template entry, or pass --template")
}

// LoadFile reads configuration from path. Files ending in .json are parsed
// as JSON, anything else as YAML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeConfigRead).
			WithDetail(path).
			Wrap(err)
	}

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New(errors.CodeConfigParse).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			Wrap(err)
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

// SaveTo writes the configuration to path, as JSON when path ends in .json
// and YAML otherwise.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return errors.New(errors.CodeConfigParse).Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigRead).Wrap(err)
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

// applyDefaults fills in default values for fields a file left empty.
func (c *Config) applyDefaults() {
	if c.Live.Addr == "" {
		c.Live.Addr = DefaultAddr
	}
	if c.Live.Path == "" {
		c.Live.Path = DefaultLivePath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

var metricNamespace = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Template == "" {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("template must name a markup file")
	}
	if _, _, err := net.SplitHostPort(c.Live.Addr); err != nil {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("live.addr %q is not host:port", c.Live.Addr).
			Wrap(err)
	}
	if !strings.HasPrefix(c.Live.Path, "/") {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("live.path %q must start with /", c.Live.Path)
	}
	if !metricNamespace.MatchString(c.Metrics.Namespace) {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("metrics.namespace %q is not a valid metric name prefix", c.Metrics.Namespace)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// TemplatePath resolves Template against the config directory.
func (c *Config) TemplatePath() string {
	return c.resolve(c.Template)
}

// DataPath resolves Data against the config directory. It is empty when no
// data file is configured.
func (c *Config) DataPath() string {
	if c.Data == "" {
		return ""
	}
	return c.resolve(c.Data)
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir() == "" {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// LogLevel returns Log.Level as a slog level. Invalid levels fall back to
// info; Validate reports them.
func (c *Config) LogLevel() slog.Level {
	lvl, err := ParseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ParseLevel parses a slog level name.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, errors.New(errors.CodeConfigInvalid).
			WithDetailf("log.level %q must be debug, info, warn or error", s)
	}
	return lvl, nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range []string{YAMLFileName, JSONFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
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
			return "", errors.New(errors.CodeConfigRead).
				WithDetail("No vbind.yaml found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
