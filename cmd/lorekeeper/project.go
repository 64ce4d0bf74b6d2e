package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"lorekeeper/internal/config"
	"lorekeeper/internal/engine"
	"lorekeeper/internal/logging"
	"lorekeeper/internal/session"
	"lorekeeper/internal/store"
	"lorekeeper/internal/store/postgres"
	"lorekeeper/internal/store/sqlite"
)

const defaultConfigPath = config.DefaultConfigPath

var configPath string

type project struct {
	cfg      *config.ProjectConfig
	sections *config.SectionSchema
	logger   *slog.Logger
}

// loadProject reads the project config and section schema and installs the
// configured logger as the slog default.
func loadProject() (*project, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return nil, err
	}
	sections, err := config.LoadSectionSchemaIfExists(config.DefaultSchemaPath)
	if err != nil {
		return nil, err
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := logging.SetDefault("lorekeeper", version, cfg.Log.Format, level)
	return &project{cfg: cfg, sections: sections, logger: logger}, nil
}

// openSession resumes the project's session. journal may be nil.
func (p *project) openSession(journal session.Journal, observers ...engine.Observer) (*session.Session, error) {
	return session.Open(session.OpenConfig{
		Project:   p.cfg,
		Sections:  p.sections,
		Journal:   journal,
		Logger:    p.logger,
		Observers: observers,
	})
}

// openStore connects to the store named by dsn and ensures its schema.
func openStore(ctx context.Context, dsn string) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		st, err = sqlite.New(ctx, dsn)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		st, err = postgres.New(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported store dsn: %s", dsn)
	}
	if err != nil {
		return nil, err
	}
	if err := st.EnsureSchema(ctx); err != nil {
		_ = st.Close(ctx)
		return nil, err
	}
	return st, nil
}
