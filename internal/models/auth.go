package models

import "github.com/golang-jwt/jwt/v5"

// RegisterRequest holds the registration payload.
type RegisterRequest struct {
	EmployeeID  string   `json:"employee_id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=6"`
	Role        UserRole `json:"role" validate:"omitempty,oneof=SystemAdmin Admin Supervisor Agent"`
	Department  string   `json:"department"`
	Designation string   `json:"designation"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and caller profile.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID int64    `json:"user_id"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}

// RequestMeta carries request provenance into audit records.
type RequestMeta struct {
	IP        string
	UserAgent string
}
