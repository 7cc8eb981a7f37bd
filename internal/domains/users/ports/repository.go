package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-users-api/internal/domains/users/domain"
)

var ErrNotFound = errors.New("user not found")

// Repository persists users. Identifier generation belongs to the implementation.
type Repository interface {
	List(ctx context.Context) ([]*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, user *domain.User) error
}
