package ports

import (
	"context"

	"github.com/estatehub/listings-api/internal/core/domain"
)

// AuthService issues and validates the bearer tokens that gate mutating
// listing routes.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.Admin, string, error)
	Login(ctx context.Context, email, password string) (*domain.Admin, string, error)
	// Verify parses a bearer token and returns the admin ID it embeds.
	Verify(token string) (string, error)
}
