package model

import "time"

// User represents a user in the database.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"required,max=100"`
	Age      int    `json:"age" validate:"required,gte=18,lte=100"`
	Gender   string `json:"gender" validate:"required,oneof=male female other"`
	Location string `json:"location" validate:"required,max=255"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is the user+token envelope returned by register and login.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// UserResponse represents user data safe for API responses (no password hash).
type UserResponse struct {
	ID      string   `json:"id"`
	Email   string   `json:"email"`
	Profile *Profile `json:"profile"`
}

// UserSummary is the sender block attached to inbox items.
type UserSummary struct {
	ID      string           `json:"id"`
	Email   string           `json:"email"`
	Profile *ProfileNameOnly `json:"profile"`
}

// ProfileNameOnly carries just the display name of a profile.
type ProfileNameOnly struct {
	Name string `json:"name"`
}
