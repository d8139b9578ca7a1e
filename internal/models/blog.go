package models

import (
	"time"

	"github.com/google/uuid"
)

type Blog struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AuthorID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"author_id"`
	Title     string      `gorm:"not null;size:255" json:"title"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	Category  string      `gorm:"size:50;index" json:"category"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Author    User        `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Images    []BlogImage `gorm:"foreignKey:BlogID" json:"images"`
}

// BlogImage holds the public URL of an uploaded image. Uploads themselves go
// to the external storage bucket; only the resulting URL is recorded here.
type BlogImage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BlogID    uuid.UUID `gorm:"type:uuid;not null;index" json:"blog_id"`
	ImageURL  string    `gorm:"not null;size:1000" json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}
