package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AgencyStatusPending  = "pending"
	AgencyStatusApproved = "approved"
)

// Agency is the role-specific profile for agency accounts. Status starts at
// pending and only an admin may move it to approved; an agency may edit its
// own profile fields but never its status.
type Agency struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	AgencyName    string    `gorm:"not null;size:255" json:"agency_name"`
	ContactNumber string    `gorm:"size:50" json:"contact_number"`
	Website       string    `gorm:"size:500" json:"website"`
	Description   string    `gorm:"type:text" json:"description"`
	Status        string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	User          User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Agency) TableName() string {
	return "agencies"
}
