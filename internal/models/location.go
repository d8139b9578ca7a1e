package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Location is an admin-curated map point of interest.
type Location struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:100;index" json:"category"`
	Latitude    float64   `gorm:"not null" json:"latitude"`
	Longitude   float64   `gorm:"not null" json:"longitude"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PopularPlace is an upsert target keyed by the caller-supplied id; blog and
// review id sets are JSONB arrays maintained by the client.
type PopularPlace struct {
	ID              string         `gorm:"primaryKey;size:255" json:"id"`
	Name            string         `gorm:"not null;size:255" json:"name"`
	Lat             float64        `gorm:"not null" json:"lat"`
	Long            float64        `gorm:"not null" json:"long"`
	PopularityScore float64        `gorm:"default:0" json:"popularity_score"`
	CategoryGuess   *string        `gorm:"size:100" json:"category_guess"`
	BlogIDs         datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"blog_ids"`
	ReviewIDs       datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"review_ids"`
	AddedAt         time.Time      `json:"added_at"`
}

func (PopularPlace) TableName() string {
	return "popular_places"
}
