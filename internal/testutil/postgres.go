package testutil

import (
	"net/url"
	"os"
	"strings"
	"testing"

	"recipebox/internal/config"
	"recipebox/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// PostgresConfig turns a postgres:// URL into a test configuration that
// derives the schema from the models.
func PostgresConfig(dsn string) (*config.Config, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, err
	}
	password := ""
	if u.User != nil {
		password, _ = u.User.Password()
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	sslMode := u.Query().Get("sslmode")
	if sslMode == "" {
		sslMode = "disable"
	}
	return &config.Config{
		DBHost:         u.Hostname(),
		DBPort:         port,
		DBUser:         u.User.Username(),
		DBPassword:     password,
		DBName:         strings.TrimPrefix(u.Path, "/"),
		DBSSLMode:      sslMode,
		DBMaxOpenConns: 20,
		Env:            "test",
		DBSchemaMode:   database.SchemaModeAuto,
	}, nil
}

// NewPostgresDB connects to DATABASE_URL and skips the test when it is unset.
func NewPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping PostgreSQL test")
	}
	cfg, err := PostgresConfig(dsn)
	require.NoError(t, err)

	db, err := database.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
