package models

import (
	"time"

	"github.com/google/uuid"
)

// RevokedToken blacklists a bearer token until its natural expiry.
// Logout inserts a row; the auth middleware rejects matching hashes.
// Expired rows are purged by the daily cleanup goroutine.
type RevokedToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash string    `gorm:"uniqueIndex;not null;size:64" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
