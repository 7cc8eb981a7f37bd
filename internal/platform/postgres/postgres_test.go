package postgres

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	dsn := BuildDSN("db", 5432, "users", "app", "p@ss word", "disable")
	assert.Equal(t, `host=db port=5432 dbname=users user=app password='p@ss word' sslmode=disable`, dsn)
}

func TestBuildDSN_EscapesQuotes(t *testing.T) {
	dsn := BuildDSN("db", 0, "", "", `it's`, "")
	assert.Equal(t, `host=db password='it\'s'`, dsn)
}

func TestNewDialector(t *testing.T) {
	for _, driver := range []string{"", "pgx", "PQ"} {
		_, err := newDialector("host=localhost", driver)
		require.NoError(t, err, driver)
	}
	_, err := newDialector("host=localhost", "mysql")
	require.Error(t, err)
}

func TestAsError_PGX(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23502", Message: "null value", ColumnName: "email"})
	pgErr, ok := AsError(wrapped)
	require.True(t, ok)
	assert.True(t, pgErr.IsNotNullViolation())
	assert.Equal(t, "email", pgErr.Column)
}

func TestAsError_PQ(t *testing.T) {
	pgErr, ok := AsError(&pq.Error{Code: "23505", Message: "duplicate", Constraint: "users_pkey"})
	require.True(t, ok)
	assert.False(t, pgErr.IsNotNullViolation())
	assert.Equal(t, "users_pkey", pgErr.Constraint)
}

func TestAsError_Other(t *testing.T) {
	_, ok := AsError(fmt.Errorf("boom"))
	assert.False(t, ok)
}
