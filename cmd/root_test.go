package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wordiz/internal/config"
	"github.com/abhisek/wordiz/internal/store"
)

func TestResolveDB(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WORDIZ_DB", "")
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "xdg"))

	tests := []struct {
		name       string
		cfg        config.Config
		wantDriver string
		wantDSN    string
		wantErr    bool
	}{
		{
			name:       "default path",
			cfg:        config.Config{DBDriver: "sqlite"},
			wantDriver: store.DriverSQLite,
			wantDSN:    filepath.Join(dir, "xdg", "wordiz", "wordiz.db"),
		},
		{
			name:       "explicit sqlite path",
			cfg:        config.Config{DBDSN: filepath.Join(dir, "nested", "my.db")},
			wantDriver: store.DriverSQLite,
			wantDSN:    filepath.Join(dir, "nested", "my.db"),
		},
		{
			name:       "postgres",
			cfg:        config.Config{DBDriver: "postgres", DBDSN: "postgres://localhost/wordiz"},
			wantDriver: store.DriverPostgres,
			wantDSN:    "postgres://localhost/wordiz",
		},
		{
			name:       "pgx alias",
			cfg:        config.Config{DBDriver: "pgx", DBDSN: "postgres://localhost/wordiz"},
			wantDriver: store.DriverPostgres,
			wantDSN:    "postgres://localhost/wordiz",
		},
		{name: "postgres without dsn", cfg: config.Config{DBDriver: "postgres"}, wantErr: true},
		{name: "unknown driver", cfg: config.Config{DBDriver: "mysql"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, dsn, err := resolveDB(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantDSN, dsn)
			if driver == store.DriverSQLite {
				_, err := os.Stat(filepath.Dir(dsn))
				assert.NoError(t, err, "parent dir should exist")
			}
		})
	}
}

func TestEnsureSeeded(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	st, err := store.Open(store.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	catalog := st.CatalogRepo()

	require.NoError(t, ensureSeeded(ctx, catalog))
	n, err := catalog.CountWords(ctx)
	require.NoError(t, err)
	assert.Positive(t, n)

	require.NoError(t, ensureSeeded(ctx, catalog))
	again, err := catalog.CountWords(ctx)
	require.NoError(t, err)
	assert.Equal(t, n, again)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "casa", truncate("casa", 10))
	assert.Equal(t, "niñ", truncate("niño", 3))
	assert.Equal(t, "", truncate("", 3))
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0042", formatCost(0.0042))
	assert.Equal(t, "$1.50", formatCost(1.5))
}
