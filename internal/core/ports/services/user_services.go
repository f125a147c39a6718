package services

import (
	"context"
	"time"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	"github.com/ledgerpro/ledgerpro_backend/internal/dto"
)

// UserReaderSvc exposes user lookups.
type UserReaderSvc interface {
	// GetUserByID returns the user with the given ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail returns the user registered under the email address.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsers returns a page of users.
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
}

// UserWriterSvc exposes user mutation, including refresh token bookkeeping
// used by the auth flow.
type UserWriterSvc interface {
	// CreateUser registers a new user with a hashed password.
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	// UpdateUser changes a user's profile. Users may only update themselves.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error)

	// UpdateRefreshToken stores a new refresh token digest and its expiry.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error

	// ClearRefreshToken invalidates the stored refresh token on logout.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserLifecycleSvc exposes soft deletion.
type UserLifecycleSvc interface {
	// DeleteUser soft-deletes a user. Users may only delete themselves.
	DeleteUser(ctx context.Context, userID string, requestingUserID string) error
}

// UserAuthSvc verifies credentials.
type UserAuthSvc interface {
	// AuthenticateUser checks email and password and returns the user on success.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)
}

// UserSvcFacade is the full user service surface.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserLifecycleSvc
	UserAuthSvc
}
