package ports

import (
	"context"

	"github.com/Apurer/go-gin-users-api/internal/domains/users/domain"
)

// Service exposes the users use cases to adapters.
type Service interface {
	List(ctx context.Context) ([]*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, profile domain.Profile) (*domain.User, error)
	Update(ctx context.Context, id int64, profile domain.Profile) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
