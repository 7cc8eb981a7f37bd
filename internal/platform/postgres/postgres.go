package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	// DriverPGX selects the pgx stdlib driver bundled with the GORM dialector.
	DriverPGX = "pgx"
	// DriverPQ selects github.com/lib/pq, registered under the "postgres" driver name.
	DriverPQ = "pq"
)

// Options tune how the connection is opened.
type Options struct {
	Driver         string
	ConnectTimeout time.Duration
	LogLevel       gormlogger.LogLevel
}

// Connect opens a PostgreSQL connection via GORM and verifies connectivity.
// A failed ping still returns the handle so callers can keep serving and let the pool reconnect.
func Connect(ctx context.Context, dsn string, opts Options) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	dialector, err := newDialector(dsn, opts.Driver)
	if err != nil {
		return nil, err
	}
	logLevel := opts.LogLevel
	if logLevel == 0 {
		logLevel = gormlogger.Warn
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return db, Ping(ctx, db, timeout)
}

// Ping checks the underlying pool within the given timeout.
func Ping(ctx context.Context, db *gorm.DB, timeout time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newDialector(dsn, driver string) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverPGX:
		return postgres.Open(dsn), nil
	case DriverPQ:
		return postgres.New(postgres.Config{DriverName: "postgres", DSN: dsn}), nil
	default:
		return nil, fmt.Errorf("unsupported postgres driver %q", driver)
	}
}

// BuildDSN assembles a key/value DSN from discrete settings.
func BuildDSN(host string, port int, name, user, password, sslMode string) string {
	parts := []string{"host=" + quoteDSNValue(host)}
	if port > 0 {
		parts = append(parts, fmt.Sprintf("port=%d", port))
	}
	if name != "" {
		parts = append(parts, "dbname="+quoteDSNValue(name))
	}
	if user != "" {
		parts = append(parts, "user="+quoteDSNValue(user))
	}
	if password != "" {
		parts = append(parts, "password="+quoteDSNValue(password))
	}
	if sslMode != "" {
		parts = append(parts, "sslmode="+quoteDSNValue(sslMode))
	}
	return strings.Join(parts, " ")
}

func quoteDSNValue(value string) string {
	if value != "" && !strings.ContainsAny(value, ` '\`) {
		return value
	}
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value)
	return "'" + escaped + "'"
}
