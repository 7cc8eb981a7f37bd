package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Apurer/go-gin-users-api/internal/domains/users/domain"
	"github.com/Apurer/go-gin-users-api/internal/domains/users/ports"
)

var userColumns = []string{"id", "name", "email", "phone", "city", "country", "profile_picture", "created_at", "updated_at"}

type nullArg struct{}

func (nullArg) Match(v driver.Value) bool { return v == nil }

func newMockRepository(t *testing.T, opts ...Option) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return NewRepository(db, opts...), mock
}

func annUser(t *testing.T, picture *string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(domain.Profile{
		Name: "Ann", Email: "a@x.com", Phone: "555", City: "NYC", Country: "US", ProfilePicture: picture,
	})
	require.NoError(t, err)
	return user
}

func TestRepository_List(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(userColumns).
		AddRow(1, "Ann", "a@x.com", "555", "NYC", "US", nil, now, now).
		AddRow(2, "Bob", "b@x.com", "556", "LA", "US", "1714564800000.png", now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" ORDER BY id`)).WillReturnRows(rows)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Nil(t, users[0].ProfilePicture)
	require.NotNil(t, users[1].ProfilePicture)
	assert.Equal(t, "1714564800000.png", *users[1].ProfilePicture)
	assert.Equal(t, now, users[1].CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListEmpty(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).WillReturnRows(sqlmock.NewRows(userColumns))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestRepository_GetByIDMissing(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepository(t)
	picture := "1714564800000.jpg"

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users" ("name","email","phone","city","country","profile_picture","created_at","updated_at")`)).
		WithArgs("Ann", "a@x.com", "555", "NYC", "US", picture, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), annUser(t, &picture))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	require.NotNil(t, created.ProfilePicture)
	assert.Equal(t, picture, *created.ProfilePicture)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateSurfacesConstraintErrors(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pgconn.PgError{Code: "23502", ColumnName: "email"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), annUser(t, nil))
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "email", pgErr.ColumnName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateWritesNullPicture(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	user := annUser(t, nil)
	user.ID = 1
	user.Name = "Ann B"
	user.CreatedAt = now

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "name"=$1,"email"=$2,"phone"=$3,"city"=$4,"country"=$5,"profile_picture"=$6,"updated_at"=$7 WHERE`)).
		WithArgs("Ann B", "a@x.com", "555", "NYC", "US", nullArg{}, sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "Ann B", "a@x.com", "555", "NYC", "US", nil, now, now.Add(time.Minute)))

	updated, err := repo.Update(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "Ann B", updated.Name)
	assert.Nil(t, updated.ProfilePicture)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateMissingRow(t *testing.T) {
	repo, mock := newMockRepository(t)
	user := annUser(t, nil)
	user.ID = 9

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	_, err := repo.Update(context.Background(), user)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := newMockRepository(t)
	user := annUser(t, nil)
	user.ID = 3

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, repo.Delete(context.Background(), user))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	assert.ErrorIs(t, repo.Delete(context.Background(), user), ports.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_NotConfigured(t *testing.T) {
	repo := NewRepository(nil)
	_, err := repo.List(context.Background())
	assert.EqualError(t, err, "postgres user repository not configured")
}

func TestRepository_EnsuresSchemaOnFirstUse(t *testing.T) {
	calls := 0
	ensure := func(*gorm.DB) error {
		calls++
		if calls == 1 {
			return errors.New("connection refused")
		}
		return nil
	}
	repo, mock := newMockRepository(t, WithSchema(ensure))
	ctx := context.Background()

	_, err := repo.List(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ensure users schema")
	assert.Equal(t, 1, calls)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" ORDER BY id`)).WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" ORDER BY id`)).WillReturnRows(sqlmock.NewRows(userColumns))
	_, err = repo.List(ctx)
	require.NoError(t, err)
	_, err = repo.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}
