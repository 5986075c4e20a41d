package services

import (
	"context"

	"github.com/nyasatech/expense_request_app/internal/core/domain"
	"github.com/nyasatech/expense_request_app/internal/dto"
)

// UserReaderSvc defines read operations for user data.
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves users, optionally filtered by role.
	ListUsers(ctx context.Context, params dto.ListUsersParams) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data.
type UserWriterSvc interface {
	// CreateUser registers a new user (signup).
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	// UpdateUser updates the user's own profile details.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)

	// UpdatePassword changes the password after verifying the current one.
	UpdatePassword(ctx context.Context, userID string, req dto.UpdatePasswordRequest) error

	// ResetPassword sets a new password for the account with the given email.
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error
}

// UserLifecycleSvc defines operations for managing user lifecycle.
type UserLifecycleSvc interface {
	// DeleteUser removes the user and cascades to the requests they created.
	DeleteUser(ctx context.Context, userID string) error
}

// UserAuthSvc defines operations for user authentication.
type UserAuthSvc interface {
	// AuthenticateUser authenticates a user with email and password.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserLifecycleSvc
	UserAuthSvc
}

// TokenSvcFacade issues access tokens for authenticated users.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a signed JWT carrying the user's identity
	// claims (id, role, email, name).
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, error)
}
