package models

import (
	"time"

	"github.com/google/uuid"
)

// Role determines which views and actions an account is authorized for.
type Role string

const (
	RoleUser   Role = "user"
	RoleAgency Role = "agency"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAgency || r == RoleAdmin
}

// User is the application-level account record. Its ID foreign-keys the
// identity issued by the identity provider; role is immutable after signup.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Fullname  string    `gorm:"not null;size:255" json:"fullname"`
	Avatar    string    `gorm:"size:512" json:"avatar"`
	Role      Role      `gorm:"size:20;not null;default:'user'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
