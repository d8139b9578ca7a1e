package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PackageID uuid.UUID   `gorm:"type:uuid;not null;index" json:"package_id"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	Rating    int         `gorm:"not null" json:"rating"`
	Comment   string      `gorm:"type:text" json:"comment"`
	CreatedAt time.Time   `json:"created_at"`
	Package   TourPackage `gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE" json:"-"`
	User      User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
}

// WishlistItem links a user to a saved package; one row per pair.
type WishlistItem struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_package" json:"user_id"`
	PackageID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_package" json:"package_id"`
	CreatedAt time.Time   `json:"created_at"`
	Package   TourPackage `gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE" json:"package"`
}

func (WishlistItem) TableName() string {
	return "wishlist"
}
