package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-users-api/internal/domains/users/domain"
	"github.com/Apurer/go-gin-users-api/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// replacedColumns are written on every update, including a NULL profile picture.
var replacedColumns = []string{"name", "email", "phone", "city", "country", "profile_picture", "updated_at"}

// Repository persists users in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB

	ensureSchema func(*gorm.DB) error
	schemaMu     sync.Mutex
	schemaReady  atomic.Bool
}

// Option configures a Repository.
type Option func(*Repository)

// WithSchema runs ensure before the first statement. A failed attempt is retried on the next call.
func WithSchema(ensure func(*gorm.DB) error) Option {
	return func(r *Repository) { r.ensureSchema = ensure }
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
// Without WithSchema the caller also owns the schema.
func NewRepository(db *gorm.DB, opts ...Option) *Repository {
	r := &Repository{db: db}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type userRecord struct {
	ID             int64     `gorm:"primaryKey;column:id"`
	Name           string    `gorm:"column:name;type:text;not null"`
	Email          string    `gorm:"column:email;type:text;not null"`
	Phone          string    `gorm:"column:phone;type:text;not null"`
	City           string    `gorm:"column:city;type:text;not null"`
	Country        string    `gorm:"column:country;type:text;not null"`
	ProfilePicture *string   `gorm:"column:profile_picture;type:text"`
	CreatedAt      time.Time `gorm:"column:created_at;not null"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null"`
}

func (userRecord) TableName() string { return "users" }

// List returns every user ordered by id.
func (r *Repository) List(ctx context.Context) ([]*domain.User, error) {
	if err := r.ready(ctx); err != nil {
		return nil, err
	}
	var records []userRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(records))
	for i := range records {
		users = append(users, records[i].toDomain())
	}
	return users, nil
}

// GetByID fetches a user by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if err := r.ready(ctx); err != nil {
		return nil, err
	}
	var record userRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Create inserts a user; the database assigns id and timestamps.
func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ready(ctx); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	record := toRecord(user)
	record.ID = 0
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// Update overwrites the mutable columns of an existing row.
func (r *Repository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ready(ctx); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	record := toRecord(user)
	result := r.db.WithContext(ctx).
		Model(&record).
		Select(replacedColumns).
		Updates(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, record.ID)
}

// Delete removes the row backing user.
func (r *Repository) Delete(ctx context.Context, user *domain.User) error {
	if err := r.ready(ctx); err != nil {
		return err
	}
	if user == nil {
		return errors.New("user is nil")
	}
	result := r.db.WithContext(ctx).Delete(&userRecord{}, user.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ready(ctx context.Context) error {
	if r == nil || r.db == nil {
		return errors.New("postgres user repository not configured")
	}
	if r.ensureSchema == nil || r.schemaReady.Load() {
		return nil
	}
	r.schemaMu.Lock()
	defer r.schemaMu.Unlock()
	if r.schemaReady.Load() {
		return nil
	}
	if err := r.ensureSchema(r.db.WithContext(ctx)); err != nil {
		return fmt.Errorf("ensure users schema: %w", err)
	}
	r.schemaReady.Store(true)
	return nil
}

func toRecord(user *domain.User) userRecord {
	return userRecord{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Phone:          user.Phone,
		City:           user.City,
		Country:        user.Country,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		City:           r.City,
		Country:        r.Country,
		ProfilePicture: r.ProfilePicture,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
