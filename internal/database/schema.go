package database

import (
	"context"
	"fmt"
	"log/slog"

	"recipebox/internal/config"
	"recipebox/internal/middleware"

	"gorm.io/gorm"
)

// Schema modes. SQL applies the embedded migrations; auto lets gorm derive
// the tables from the models and is meant for development and tests.
const (
	SchemaModeSQL  = "sql"
	SchemaModeAuto = "auto"
)

// SchemaMode resolves DB_SCHEMA_MODE. When unset, development and test use
// auto and every other environment uses sql. Auto is refused in production.
func SchemaMode(cfg *config.Config) (string, error) {
	mode := cfg.DBSchemaMode
	if mode == "" {
		if cfg.Env == "development" || cfg.Env == "test" {
			return SchemaModeAuto, nil
		}
		return SchemaModeSQL, nil
	}
	switch mode {
	case SchemaModeSQL:
		return mode, nil
	case SchemaModeAuto:
		if cfg.IsProduction() {
			return "", fmt.Errorf("DB_SCHEMA_MODE=auto is not allowed in %s; run the sql migrations", cfg.Env)
		}
		return mode, nil
	default:
		return "", fmt.Errorf("unsupported DB_SCHEMA_MODE %q (want %s or %s)", mode, SchemaModeSQL, SchemaModeAuto)
	}
}

// ApplySchema brings the recipe tables up to date in the configured mode.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	mode, err := SchemaMode(cfg)
	if err != nil {
		return err
	}

	if mode == SchemaModeAuto {
		middleware.Logger.Info("Deriving schema from models", slog.String("env", cfg.Env))
		if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		return nil
	}

	n, err := Migrate(ctx, db)
	if err != nil {
		return fmt.Errorf("run sql migrations: %w", err)
	}
	middleware.Logger.Info("Schema up to date", slog.Int("applied", n))
	return nil
}

// TableStatus describes one recipe table.
type TableStatus struct {
	Table  string
	Exists bool
	Rows   int64
}

// SchemaStatus is what cmd/migrate status prints.
type SchemaStatus struct {
	Mode    string
	Applied []int
	Pending []Migration
	Tables  []TableStatus
}

// GetSchemaStatus reports the migration state and the row count of every
// recipe table.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	mode, err := SchemaMode(cfg)
	if err != nil {
		return nil, err
	}
	status := &SchemaStatus{Mode: mode}

	if mode == SchemaModeSQL {
		applied, err := appliedVersions(ctx, db)
		if err != nil {
			return nil, err
		}
		pending, err := pendingMigrations(applied, migrations)
		if err != nil {
			return nil, err
		}
		status.Applied, status.Pending = applied, pending
	}

	tables, err := tableStatus(ctx, db)
	if err != nil {
		return nil, err
	}
	status.Tables = tables
	return status, nil
}

func tableStatus(ctx context.Context, db *gorm.DB) ([]TableStatus, error) {
	db = db.WithContext(ctx)
	out := make([]TableStatus, 0, len(PersistentModels()))
	for _, model := range PersistentModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}
		ts := TableStatus{Table: stmt.Schema.Table, Exists: db.Migrator().HasTable(model)}
		if ts.Exists {
			if err := db.Model(model).Count(&ts.Rows).Error; err != nil {
				return nil, fmt.Errorf("count %s: %w", ts.Table, err)
			}
		}
		out = append(out, ts)
	}
	return out, nil
}
