package sqlrepo

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/homepage/internal/config"
	"github.com/Kerhoff/homepage/pkg/logger"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := config.NewDatabase(config.DriverSQLite, filepath.Join(t.TempDir(), "test.db"), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	return db.DB
}

func strPtr(s string) *string { return &s }
