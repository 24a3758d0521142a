package domain

import (
	"errors"
	"time"
)

var ErrAdminExists = errors.New("admin already exists")
var ErrAdminNotFound = errors.New("admin not found")
var ErrInvalidCredentials = errors.New("invalid email or password")

// Admin is a privileged identity permitted to mutate listings.
type Admin struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
