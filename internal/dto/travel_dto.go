package dto

import "github.com/google/uuid"

type PackageRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Location    string  `json:"location"`
	Duration    int     `json:"duration"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Category    string  `json:"category"`
}

type ReviewRequest struct {
	PackageID uuid.UUID `json:"package_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
}

type WishlistRequest struct {
	PackageID uuid.UUID `json:"package_id"`
}

type BlogRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Category  string   `json:"category"`
	ImageURLs []string `json:"image_urls"`
}

type FestivalSubmissionRequest struct {
	FestivalName      string `json:"festival_name"`
	Description       string `json:"description"`
	CelebratedRegions string `json:"celebrated_regions"`
	State             string `json:"state"`
	District          string `json:"district"`
	Taluka            string `json:"taluka"`
}

type LocationRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

type PlaceUpsertRequest struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Lat             float64  `json:"lat"`
	Long            float64  `json:"long"`
	PopularityScore float64  `json:"popularity_score"`
	CategoryGuess   *string  `json:"category_guess"`
	BlogIDs         []string `json:"blog_ids"`
	ReviewIDs       []string `json:"review_ids"`
}

type AgencyProfileRequest struct {
	AgencyName    string `json:"agency_name"`
	ContactNumber string `json:"contact_number"`
	Website       string `json:"website"`
	Description   string `json:"description"`
}
