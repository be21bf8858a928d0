package model

import "time"

// User represents an account in the database.
type User struct {
	ID        string
	Email     string
	Name      string
	AuthHash  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor is the identity performing a request. The zero Actor is anonymous.
type Actor struct {
	ID    string
	Email string
	Name  string
}

// Anonymous reports whether no actor is signed in.
func (a Actor) Anonymous() bool {
	return a.ID == ""
}

// CreateUserRequest represents a user registration request.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents an authentication response with a JWT token and user info.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse represents user data safe for API responses (no sensitive fields).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
