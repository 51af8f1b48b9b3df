package main

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/vbind/internal/config"
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/component"
	"github.com/vango-dev/vbind/pkg/store"
)

// project is a loaded config plus the definition and data it names.
type project struct {
	cfg  *config.Config
	def  *component.Definition
	data *store.Map
}

// loadProject reads the config in g.dir, applies flag overrides and loads
// the template and data files. A missing config is fine when --template is
// given.
func loadProject(g *globalFlags) (*project, error) {
	cfg, err := config.Load(g.dir)
	if err != nil {
		if g.template == "" || !stderrors.Is(err, errors.New(errors.CodeConfigRead)) {
			return nil, err
		}
		cfg = config.Default()
	}

	if g.template != "" {
		cfg.Template = g.template
	}
	if g.data != "" {
		cfg.Data = g.data
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	def, err := component.DefineFile(resolveFlagPath(cfg.TemplatePath(), g.template))
	if err != nil {
		return nil, err
	}

	p := &project{cfg: cfg, def: def, data: store.NewMap()}
	if dataPath := resolveFlagPath(cfg.DataPath(), g.data); dataPath != "" {
		if p.data, err = loadData(dataPath); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// resolveFlagPath keeps a path given on the command line relative to the
// working directory rather than the config directory.
func resolveFlagPath(configured, flag string) string {
	if flag != "" {
		return flag
	}
	return configured
}

// loadData decodes a data file by extension: .json as JSON, anything else
// as YAML.
func loadData(path string) (*store.Map, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeDataDecode).WithDetail(path).Wrap(err)
	}
	var m *store.Map
	if strings.EqualFold(filepath.Ext(path), ".json") {
		m, err = store.DecodeJSON(raw)
	} else {
		m, err = store.DecodeYAML(raw)
	}
	if err != nil {
		var be *errors.BindError
		if stderrors.As(err, &be) && be.Detail == "" {
			be.WithDetail(path)
		}
		return nil, err
	}
	return m, nil
}

// logger returns the process logger at the configured level.
func (p *project) logger() *slog.Logger {
	return newLogger(os.Stderr, p.cfg.LogLevel())
}
