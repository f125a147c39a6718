package repositories

import (
	"context"
	"time"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
)

// UserReader exposes user lookups.
type UserReader interface {
	// FindUserByID returns the user with the given ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail returns the user registered under the email address.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsers returns a page of users.
	FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriter exposes user persistence.
type UserWriter interface {
	// SaveUser inserts a new user row.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser rewrites a user's mutable fields, including refresh token state.
	UpdateUser(ctx context.Context, user domain.User) error
}

// UserLifecycleManager exposes soft deletion.
type UserLifecycleManager interface {
	// MarkUserDeleted soft-deletes a user, recording when and by whom.
	MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error
}

// UserRepositoryFacade is the full user persistence surface.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserLifecycleManager
}
