package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nyasatech/expense_request_app/internal/apperrors"
	"github.com/nyasatech/expense_request_app/internal/core/domain"
	portsrepo "github.com/nyasatech/expense_request_app/internal/core/ports/repositories"
	portssvc "github.com/nyasatech/expense_request_app/internal/core/ports/services"
	"github.com/nyasatech/expense_request_app/internal/dto"
	"github.com/nyasatech/expense_request_app/internal/utils"
)

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates the user management service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	role := domain.RoleEmployee
	if req.Role != "" {
		role = domain.Role(req.Role)
		if !role.IsValid() {
			return nil, apperrors.NewValidation(fmt.Sprintf("Invalid role %q", req.Role))
		}
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         role,
		PasswordHash: passwordHash,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save user")
		}
		return nil, err
	}

	s.LogInfo(ctx, "User created", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFound("User not found")
		}
		s.LogError(ctx, err, "Failed to find user by email")
		return nil, err
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.NewUnauthorized("Invalid credentials")
	}

	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user", slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, params dto.ListUsersParams) ([]domain.User, error) {
	var role *domain.Role
	if params.Role != "" {
		r := domain.Role(params.Role)
		role = &r
	}

	users, err := s.userRepo.FindUsers(ctx, role)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFound("User not found")
		}
		s.LogError(ctx, err, "Failed to find user for update", slog.String("user_id", userID))
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "User updated", slog.String("user_id", userID))
	return user, nil
}

func (s *userService) UpdatePassword(ctx context.Context, userID string, req dto.UpdatePasswordRequest) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFound("User not found")
		}
		s.LogError(ctx, err, "Failed to find user for password update", slog.String("user_id", userID))
		return err
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperrors.NewValidation("Incorrect current password.")
	}

	return s.setPassword(ctx, user.UserID, req.NewPassword)
}

func (s *userService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	user, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFound("User not found")
		}
		s.LogError(ctx, err, "Failed to find user for password reset")
		return err
	}

	return s.setPassword(ctx, user.UserID, req.NewPassword)
}

func (s *userService) setPassword(ctx context.Context, userID, newPassword string) error {
	passwordHash, err := utils.HashPassword(newPassword)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePasswordHash(ctx, userID, passwordHash); err != nil {
		s.LogError(ctx, err, "Failed to store new password hash", slog.String("user_id", userID))
		return err
	}

	s.LogInfo(ctx, "Password changed", slog.String("user_id", userID))
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	// Removing a user also removes the requests they created. Requests where
	// the user was only the approver keep their approver_id reference.
	if err := s.userRepo.DeleteUserCascade(ctx, userID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete user", slog.String("user_id", userID))
		}
		return err
	}

	s.LogInfo(ctx, "User deleted with owned requests", slog.String("user_id", userID))
	return nil
}
