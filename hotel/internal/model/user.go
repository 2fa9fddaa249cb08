package model

import (
	"github.com/Astemirdum/hotel-service/pkg/auth"
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         auth.Role `json:"role" db:"role"`
}

func (u User) Profile() auth.Profile {
	return auth.Profile{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
	User        User   `json:"user"`
}

type UpdateUserRequest struct {
	Email    string    `json:"email" validate:"required,email"`
	Phone    string    `json:"phone" validate:"required"`
	Name     string    `json:"name" validate:"required"`
	Role     auth.Role `json:"role" validate:"required,oneof=admin frontdesk guest"`
	Password string    `json:"password,omitempty"`
}

type ListUsers struct {
	Items []User `json:"items"`
}
