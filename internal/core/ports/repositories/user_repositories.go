package repositories

import (
	"context"

	"github.com/nyasatech/expense_request_app/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a specific user by email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsers retrieves users, optionally filtered by role.
	FindUsers(ctx context.Context, role *domain.Role) ([]domain.User, error)

	// FindUsersByIDs retrieves the given users keyed by id. Unknown ids are
	// simply absent from the map.
	FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error)

	// FindUserIDsByNameMatch returns ids of users whose first or last name
	// contains the term (case-insensitive).
	FindUserIDsByNameMatch(ctx context.Context, term string) ([]string, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	// SaveUser persists a new user. Duplicate email or phone is reported as
	// apperrors.ErrDuplicate.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates an existing user's profile details.
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdatePasswordHash replaces the user's stored password hash.
	UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error
}

// UserLifecycleManager defines operations for managing user lifecycle.
type UserLifecycleManager interface {
	// DeleteUserCascade removes the user and, in the same transaction, all
	// requests they created. Requests where the user was only the approver
	// are left untouched.
	DeleteUserCascade(ctx context.Context, userID string) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserLifecycleManager
}
