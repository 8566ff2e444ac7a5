package auth

import "time"

// Admin is the domain representation of a moderation account.
// It mirrors the admins table and carries no JSON annotations so it can be
// reused by different presentation layers.
type Admin struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LoginRequest contains moderation login credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
