package models

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the credential record owned by the identity provider. It is
// deliberately separate from User: an identity can exist without an account
// record (e.g. a signup that failed after provider registration).
type Identity struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Identity) TableName() string {
	return "identities"
}

// RefreshToken stores the SHA-256 hash of an issued refresh token. Tokens are
// single-use: Refresh revokes the presented token before minting a new pair.
type RefreshToken struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IdentityID uuid.UUID `gorm:"type:uuid;not null;index" json:"identity_id"`
	TokenHash  string    `gorm:"uniqueIndex;not null;size:64" json:"-"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	Revoked    bool      `gorm:"default:false" json:"revoked"`
	CreatedAt  time.Time `json:"created_at"`
	Identity   Identity  `gorm:"foreignKey:IdentityID" json:"-"`
}
