// File: internal/domain/models/service_connection.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ProviderGoogle is the only external provider the engine currently speaks to.
// Both the gmail.* and calendar.* kinds are served by one google grant.
const ProviderGoogle = "google"

// ServiceConnection is one user's OAuth grant for one external provider.
// The most recently created row per (user, provider) is the current one.
// The engine rewrites AccessToken and IssuedAt in place on a successful
// refresh and never deletes rows.
type ServiceConnection struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	Provider     string    `json:"provider" db:"provider"`
	AccessToken  string    `json:"-" db:"access_token"`
	RefreshToken *string   `json:"-" db:"refresh_token"`
	IssuedAt     time.Time `json:"issued_at" db:"issued_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// HasRefreshToken reports whether the grant can be kept alive without
// sending the user back through the consent screen.
func (c *ServiceConnection) HasRefreshToken() bool {
	return c.RefreshToken != nil && *c.RefreshToken != ""
}
