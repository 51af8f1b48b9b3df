package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/vango-dev/vbind/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Template != DefaultTemplate {
		t.Errorf("Template = %q, want %q", cfg.Template, DefaultTemplate)
	}
	if cfg.Live.Addr != DefaultAddr {
		t.Errorf("Live.Addr = %q, want %q", cfg.Live.Addr, DefaultAddr)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, YAMLFileName, `
template: views/card.html
data: data.yaml
live:
  addr: 0.0.0.0:8080
metrics:
  enabled: false
log:
  level: debug
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := &Config{
		Template: "views/card.html",
		Data:     "data.yaml",
		Live:     LiveConfig{Addr: "0.0.0.0:8080", Path: DefaultLivePath},
		Metrics:  MetricsConfig{Enabled: false, Namespace: DefaultNamespace},
		Log:      LogConfig{Level: "debug"},
	}
	if diff := cmp.Diff(want, cfg, cmpopts.IgnoreUnexported(Config{})); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.TemplatePath(); got != filepath.Join(dir, "views/card.html") {
		t.Errorf("TemplatePath() = %q", got)
	}
	if got := cfg.DataPath(); got != filepath.Join(dir, "data.yaml") {
		t.Errorf("DataPath() = %q", got)
	}
	if got := cfg.LogLevel(); got != slog.LevelDebug {
		t.Errorf("LogLevel() = %v, want DEBUG", got)
	}
}

func TestLoadPrefersYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, JSONFileName, `{"template": "from-json.html"}`)
	writeFile(t, dir, YAMLFileName, `template: from-yaml.html`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Template != "from-yaml.html" {
		t.Errorf("Template = %q, want from-yaml.html", cfg.Template)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, JSONFileName, `{"template": "c.html", "live": {"path": "/ws"}}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Live.Path != "/ws" || cfg.Live.Addr != DefaultAddr {
		t.Errorf("Live = %+v, want path /ws with default addr", cfg.Live)
	}
	if cfg.DataPath() != "" {
		t.Errorf("DataPath() = %q, want empty", cfg.DataPath())
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); !stderrors.Is(err, errors.New(errors.CodeConfigRead)) {
		t.Errorf("Load(missing) error = %v, want E201", err)
	}

	path := writeFile(t, dir, YAMLFileName, "template: [unclosed")
	if _, err := LoadFile(path); !stderrors.Is(err, errors.New(errors.CodeConfigParse)) {
		t.Errorf("LoadFile(bad yaml) error = %v, want E202", err)
	}

	path = writeFile(t, dir, JSONFileName, `{"live": {"addr": 7}}`)
	if _, err := LoadFile(path); !stderrors.Is(err, errors.New(errors.CodeConfigParse)) {
		t.Errorf("LoadFile(bad json) error = %v, want E202", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"no template", func(c *Config) { c.Template = "" }},
		{"bad addr", func(c *Config) { c.Live.Addr = "localhost" }},
		{"relative path", func(c *Config) { c.Live.Path = "live" }},
		{"bad namespace", func(c *Config) { c.Metrics.Namespace = "v-bind" }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !stderrors.Is(err, errors.New(errors.CodeConfigInvalid)) {
				t.Errorf("Validate() error = %v, want E203", err)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{YAMLFileName, JSONFileName} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			cfg := Default()
			cfg.Data = "seed.json"
			cfg.Metrics.Enabled = false
			if err := cfg.SaveTo(filepath.Join(dir, name)); err != nil {
				t.Fatalf("SaveTo() error = %v", err)
			}

			loaded, err := Load(dir)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(cfg, loaded, cmpopts.IgnoreUnexported(Config{})); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
			if loaded.Path() != filepath.Join(dir, name) {
				t.Errorf("Path() = %q", loaded.Path())
			}
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, YAMLFileName, "template: c.html\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot() error = %v", err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot() = %q, want %q", got, want)
	}
	if !Exists(root) || Exists(nested) {
		t.Error("Exists() mismatch")
	}
}
