package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"recipebox/internal/middleware"

	"gorm.io/gorm"
)

// Migration is one versioned SQL schema change with its rollback script.
type Migration struct {
	Version    int
	Name       string
	UpScript   string
	DownScript string
}

func (m *Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

// schemaMigration is the bookkeeping row written for every applied migration.
type schemaMigration struct {
	Version   int    `gorm:"primaryKey;autoIncrement:false"`
	Name      string `gorm:"size:255;not null"`
	AppliedAt time.Time
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

//go:embed migrations/*.sql
var migrationFS embed.FS

var migrations []Migration

func init() {
	loaded, err := LoadMigrations(migrationFS, "migrations")
	if err != nil {
		panic(fmt.Sprintf("invalid embedded migrations: %v", err))
	}
	migrations = loaded
}

// LoadMigrations reads "<version>_<name>.up.sql" / ".down.sql" pairs from dir.
func LoadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var out []Migration
	seen := make(map[int]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		base := strings.TrimSuffix(name, ".up.sql")
		versionPart, label, ok := strings.Cut(base, "_")
		if !ok || label == "" {
			return nil, fmt.Errorf("migration %s: expected <version>_<name>.up.sql", name)
		}
		version, err := strconv.Atoi(versionPart)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("migration %s: invalid version %q", name, versionPart)
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("migration version %d declared by both %s and %s", version, prev, name)
		}
		seen[version] = name

		up, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read up migration %s: %w", name, err)
		}
		down, err := fs.ReadFile(fsys, path.Join(dir, base+".down.sql"))
		if err != nil {
			return nil, fmt.Errorf("failed to read down migration for %s: %w", name, err)
		}

		out = append(out, Migration{
			Version:    version,
			Name:       label,
			UpScript:   string(up),
			DownScript: string(down),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Version < out[j].Version
	})
	return out, nil
}

// GetMigrations returns the embedded migrations in version order.
func GetMigrations() []Migration {
	return migrations
}

// Migrate applies every pending embedded migration in version order.
func Migrate(ctx context.Context, db *gorm.DB) (int, error) {
	return applyMigrations(ctx, db, migrations)
}

// Rollback reverts the newest applied migrations, at most steps of them, and
// returns what it reverted, newest first.
func Rollback(ctx context.Context, db *gorm.DB, steps int) ([]Migration, error) {
	return rollbackMigrations(ctx, db, migrations, steps)
}

// appliedVersions lists recorded versions in ascending order, creating the
// bookkeeping table on first use.
func appliedVersions(ctx context.Context, db *gorm.DB) ([]int, error) {
	if err := db.WithContext(ctx).AutoMigrate(&schemaMigration{}); err != nil {
		return nil, fmt.Errorf("ensure schema_migrations: %w", err)
	}
	var versions []int
	if err := db.WithContext(ctx).Model(&schemaMigration{}).Order("version ASC").Pluck("version", &versions).Error; err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	return versions, nil
}

// pendingMigrations returns the migrations in set that are not applied. A
// recorded version missing from set means the database was migrated by a
// newer build and is refused.
func pendingMigrations(applied []int, set []Migration) ([]Migration, error) {
	known := make(map[int]bool, len(set))
	for _, m := range set {
		known[m.Version] = true
	}
	done := make(map[int]bool, len(applied))
	var unknown []string
	for _, v := range applied {
		done[v] = true
		if !known[v] {
			unknown = append(unknown, fmt.Sprintf("%06d", v))
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("schema_migrations records versions this build does not ship: %s", strings.Join(unknown, ", "))
	}

	var pending []Migration
	for _, m := range set {
		if !done[m.Version] {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

func applyMigrations(ctx context.Context, db *gorm.DB, set []Migration) (int, error) {
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return 0, err
	}
	pending, err := pendingMigrations(applied, set)
	if err != nil {
		return 0, err
	}

	for i, m := range pending {
		// Script and bookkeeping row commit together so a failed script can be re-run.
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(m.UpScript).Error; err != nil {
				return fmt.Errorf("apply %s: %w", m.String(), err)
			}
			return tx.Create(&schemaMigration{Version: m.Version, Name: m.Name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return i, err
		}
		middleware.Logger.Info("Migration applied", slog.String("migration", m.String()))
	}
	return len(pending), nil
}

func rollbackMigrations(ctx context.Context, db *gorm.DB, set []Migration, steps int) ([]Migration, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("rollback steps must be positive, got %d", steps)
	}
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}
	if _, err := pendingMigrations(applied, set); err != nil {
		return nil, err
	}

	byVersion := make(map[int]Migration, len(set))
	for _, m := range set {
		byVersion[m.Version] = m
	}

	var reverted []Migration
	for i := len(applied) - 1; i >= 0 && len(reverted) < steps; i-- {
		m := byVersion[applied[i]]
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(m.DownScript).Error; err != nil {
				return fmt.Errorf("revert %s: %w", m.String(), err)
			}
			return tx.Where("version = ?", m.Version).Delete(&schemaMigration{}).Error
		})
		if err != nil {
			return reverted, err
		}
		middleware.Logger.Info("Migration rolled back", slog.String("migration", m.String()))
		reverted = append(reverted, m)
	}
	return reverted, nil
}
