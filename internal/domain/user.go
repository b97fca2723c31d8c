package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that owns trips. PasswordHash is a bcrypt hash and is
// never serialized; handlers expose only id, name, and email.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
