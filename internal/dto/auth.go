package dto

import (
	"time"

	"github.com/google/uuid"
)

// SignupRequest arrives as multipart/form-data so it can carry an avatar.
type SignupRequest struct {
	FullName string `form:"full_name" json:"full_name" validate:"required"`
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// UserView is the client-facing user shape. The password hash never
// leaves the server.
type UserView struct {
	ID         uuid.UUID `json:"id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	AvatarPath *string   `json:"avatar_path"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}
