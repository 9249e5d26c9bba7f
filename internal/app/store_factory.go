package app

import (
	"fmt"
	"strings"

	"github.com/edusphere/backend/internal/store"
	"github.com/edusphere/backend/internal/store/postgres"
	"github.com/edusphere/backend/internal/store/sqlite"
)

// NewStore picks the backend from the DSN: postgres:// URLs go to
// Postgres, anything else is treated as a SQLite file path.
func NewStore(dsn string) (store.EntityStore, error) {
	cfg := classifyDSN(dsn)
	switch cfg.Type {
	case store.DBTypePostgres:
		return postgres.NewPostgresStore(cfg.DSN)
	case store.DBTypeSQLite:
		return sqlite.NewSQLiteStore(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

func classifyDSN(dsn string) store.DBConfig {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return store.DBConfig{DSN: dsn, Type: store.DBTypePostgres}
	}
	return store.DBConfig{DSN: dsn, Type: store.DBTypeSQLite}
}
