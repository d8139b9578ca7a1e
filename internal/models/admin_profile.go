package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminProfile is created only when an admin signup presented the correct
// signup code. The code is stored as supplied, matching the original schema.
type AdminProfile struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	AdminCode string    `gorm:"size:100;not null" json:"-"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (AdminProfile) TableName() string {
	return "admins"
}
