package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-users-api/internal/domains/users/domain"
)

// ErrInvalidInput signals a required field was missing.
var ErrInvalidInput = errors.New("invalid user input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErr *domain.FieldError
	if errors.As(err, &fieldErr) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
