package ports

import (
	"context"

	"github.com/estatehub/listings-api/internal/core/domain"
)

// AdminRepository defines the interface for admin credential persistence.
// Email uniqueness is enforced by the store.
type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
	Create(ctx context.Context, admin *domain.Admin) (*domain.Admin, error)
}
