package dto

import (
	"time"

	"github.com/nyasatech/expense_request_app/internal/core/domain"
)

// CreateUserRequest defines the signup payload.
type CreateUserRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	Role      string `json:"role" binding:"omitempty,oneof=Employee Partner"`
	Password  string `json:"password" binding:"required,min=8"`
}

// UpdateUserRequest defines the profile-edit payload. Pointers distinguish
// omitted fields from zero values.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email" binding:"omitempty,email"`
}

// UpdatePasswordRequest defines the password-change payload.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// ResetPasswordRequest defines the password-reset payload.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Role string `form:"role" binding:"omitempty,oneof=Employee Partner"`
}

// UserResponse is the wire shape of a user.
type UserResponse struct {
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateUserResponse carries the updated profile together with a re-issued
// token, since identity claims embed the profile fields.
type UpdateUserResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// ToUserResponse converts a domain.User to its wire shape.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:    user.UserID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
