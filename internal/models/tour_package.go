package models

import (
	"time"

	"github.com/google/uuid"
)

// TourPackage is created and managed by an approved agency.
type TourPackage struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AgencyID    uuid.UUID `gorm:"type:uuid;not null;index" json:"agency_id"`
	Title       string    `gorm:"not null;size:255" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	Location    string    `gorm:"not null;size:255;index" json:"location"`
	Duration    int       `gorm:"not null" json:"duration"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Category    string    `gorm:"size:50;index" json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Agency      Agency    `gorm:"foreignKey:AgencyID;constraint:OnDelete:CASCADE" json:"-"`
}

func (TourPackage) TableName() string {
	return "tour_packages"
}

// PackageCategories are the categories offered on the create-package form.
var PackageCategories = []string{"Cultural", "Historical", "Nature", "Luxury", "Adventure"}
