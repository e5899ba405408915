// File: internal/domain/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// User owns zero or more applets and service connections.
// The engine never mutates users; they are created by the auth surface.
type User struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	DisplayName string    `json:"display_name" db:"display_name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
