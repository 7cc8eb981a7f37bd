package api

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearDatabaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"POSTGRES_DSN", "DB_HOST", "DB_NAME", "DB_USER", "DB_PASSWORD"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearDatabaseEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, "users-api", cfg.ServiceName)
	assert.Equal(t, "pgx", cfg.PostgresDriver)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, 5*time.Second, cfg.DBConnectTimeout)
	assert.Equal(t, int64(8<<20), cfg.MultipartMemoryBytes())
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.Empty(t, cfg.DSN())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("POSTGRES_DRIVER", "pq")
	t.Setenv("UPLOAD_DIR", "/tmp/pictures")
	t.Setenv("DB_CONNECT_TIMEOUT", "250ms")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Addr())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "pq", cfg.PostgresDriver)
	assert.Equal(t, "/tmp/pictures", cfg.UploadDir)
	assert.Equal(t, 250*time.Millisecond, cfg.DBConnectTimeout)
}

func TestConfigDSN(t *testing.T) {
	t.Run("explicit dsn wins", func(t *testing.T) {
		cfg := Config{PostgresDSN: "postgres://u:p@db/users", DBHost: "ignored"}
		assert.Equal(t, "postgres://u:p@db/users", cfg.DSN())
	})
	t.Run("assembled from parts", func(t *testing.T) {
		cfg := Config{DBHost: "db", DBPort: 5432, DBName: "users", DBUser: "app", DBPassword: "secret", DBSSLMode: "disable"}
		dsn := cfg.DSN()
		assert.Contains(t, dsn, "host=db")
		assert.Contains(t, dsn, "port=5432")
		assert.Contains(t, dsn, "dbname=users")
		assert.Contains(t, dsn, "user=app")
		assert.Contains(t, dsn, "sslmode=disable")
	})
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":    {"POSTGRES_DRIVER": "mysql"},
		"unknown log level": {"LOG_LEVEL": "verbose"},
		"non numeric port":  {"PORT": "http"},
		"host without name": {"DB_HOST": "db", "DB_USER": "app"},
		"bad timeout":       {"DB_CONNECT_TIMEOUT": "soon"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			clearDatabaseEnv(t)
			for key, value := range vars {
				t.Setenv(key, value)
			}
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}
