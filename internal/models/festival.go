package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubmissionStatusPending  = "Pending"
	SubmissionStatusApproved = "Approved"
)

// FestivalSubmission is user-submitted festival data awaiting admin review.
type FestivalSubmission struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FestivalName      string    `gorm:"not null;size:255" json:"festival_name"`
	Description       string    `gorm:"type:text;not null" json:"description"`
	CelebratedRegions string    `gorm:"size:500" json:"celebrated_regions"`
	State             string    `gorm:"not null;size:100;index" json:"state"`
	District          string    `gorm:"size:100" json:"district"`
	Taluka            string    `gorm:"size:100" json:"taluka"`
	SubmittedBy       uuid.UUID `gorm:"type:uuid;not null;index" json:"submitted_by"`
	Status            string    `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	Submitter         User      `gorm:"foreignKey:SubmittedBy;constraint:OnDelete:CASCADE" json:"-"`
}

func (FestivalSubmission) TableName() string {
	return "user_submissions"
}

// FestivalPopularity feeds the festival choropleth on the map page. Approved
// user submissions are copied here with a seed popularity of 50.
type FestivalPopularity struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FestivalName string    `gorm:"not null;size:255;index" json:"festival_name"`
	Description  string    `gorm:"type:text" json:"description"`
	State        string    `gorm:"not null;size:100;index" json:"state"`
	District     string    `gorm:"size:100" json:"district"`
	Taluka       string    `gorm:"size:100" json:"taluka"`
	Popularity   int       `gorm:"not null;default:0" json:"popularity"`
	Source       string    `gorm:"size:50" json:"source"`
	CreatedAt    time.Time `json:"created_at"`
}

func (FestivalPopularity) TableName() string {
	return "festival_popularity"
}
