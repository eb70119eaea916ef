package config

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_DATA_DIR", "/srv/site")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "change-me", cfg.AdminToken)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "0.0.0.0:8000", cfg.ListenAddr())
	assert.Equal(t, []string{"*"}, cfg.TrustedHosts)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, filepath.Join("/srv/site", "resume.yaml"), cfg.ResumePath)
}

func TestLoadLists(t *testing.T) {
	t.Setenv("APP_TRUSTED_HOSTS", "example.com, *.example.com ,")
	t.Setenv("APP_CORS_ORIGINS", "https://example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"example.com", "*.example.com"}, cfg.TrustedHosts)
	assert.Equal(t, []string{"https://example.com"}, cfg.CORSOrigins)
}

func TestLoadReportsAllProblems(t *testing.T) {
	t.Setenv("APP_PORT", "70000")
	t.Setenv("APP_LOG_LEVEL", "loud")
	t.Setenv("APP_TELEGRAM_TOKEN", "123:abc")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_PORT")
	assert.Contains(t, err.Error(), "APP_LOG_LEVEL")
	assert.Contains(t, err.Error(), "APP_TELEGRAM_CHAT_ID")
}

func TestResolveDatabase(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantDriver string
		wantDSN    string
		wantErr    bool
	}{
		{name: "default file", url: "", wantDriver: DriverSQLite, wantDSN: filepath.Join("/data", "app.db")},
		{name: "bare relative path", url: "site.db", wantDriver: DriverSQLite, wantDSN: filepath.Join("/data", "site.db")},
		{name: "bare absolute path", url: "/var/lib/site.db", wantDriver: DriverSQLite, wantDSN: "/var/lib/site.db"},
		{name: "sqlite scheme", url: "sqlite:///tmp/x.db", wantDriver: DriverSQLite, wantDSN: "/tmp/x.db"},
		{name: "postgres", url: "postgres://u:p@localhost/site", wantDriver: DriverPostgres, wantDSN: "postgres://u:p@localhost/site"},
		{name: "postgresql", url: "postgresql://localhost/site", wantDriver: DriverPostgres, wantDSN: "postgresql://localhost/site"},
		{name: "unknown scheme", url: "mysql://localhost/site", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DataDir: "/data", DatabaseURL: tt.url}
			driver, dsn, err := cfg.ResolveDatabase()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantDSN, dsn)
		})
	}
}

func TestOpenDatabaseMigratesSQLite(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &Config{DataDir: t.TempDir()}
	db, err := cfg.OpenDatabase(logger)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Migrate())
	// Running again is a no-op.
	require.NoError(t, db.Migrate())

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM wish_items WHERE image_path IS NULL").Scan(&count))
	assert.Zero(t, count)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&count))
	assert.Zero(t, count)
}
