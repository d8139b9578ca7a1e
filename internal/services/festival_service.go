package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tripwiseapp/tripwise-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrSubmissionNotFound = errors.New("festivals: submission not found")
	ErrLocationNotFound   = errors.New("locations: location not found")
)

// seedPopularity is the score an approved user submission starts with.
const seedPopularity = 50

type FestivalSubmissionInput struct {
	FestivalName      string
	Description       string
	CelebratedRegions string
	State             string
	District          string
	Taluka            string
}

type FestivalService struct {
	db         *gorm.DB
	moderation *ModerationService
}

func NewFestivalService(db *gorm.DB, moderation *ModerationService) *FestivalService {
	return &FestivalService{db: db, moderation: moderation}
}

func (s *FestivalService) Submit(ctx context.Context, userID uuid.UUID, in FestivalSubmissionInput) (*models.FestivalSubmission, error) {
	if in.FestivalName == "" || in.Description == "" || in.State == "" {
		return nil, fmt.Errorf("festivals: festival_name, description and state are required")
	}
	if ok, reason := s.moderation.FilterContent(in.Description); !ok {
		return nil, fmt.Errorf("%w: %s", ErrContentRejected, s.moderation.GetRejectionMessage(reason))
	}

	submission := models.FestivalSubmission{
		ID:                uuid.New(),
		FestivalName:      in.FestivalName,
		Description:       in.Description,
		CelebratedRegions: in.CelebratedRegions,
		State:             in.State,
		District:          in.District,
		Taluka:            in.Taluka,
		SubmittedBy:       userID,
		Status:            models.SubmissionStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&submission).Error; err != nil {
		return nil, fmt.Errorf("festivals: submit: %w", err)
	}
	return &submission, nil
}

func (s *FestivalService) ListPending(ctx context.Context) ([]models.FestivalSubmission, error) {
	var submissions []models.FestivalSubmission
	err := s.db.WithContext(ctx).
		Where("status = ?", models.SubmissionStatusPending).
		Order("created_at ASC").
		Find(&submissions).Error
	return submissions, err
}

// Approve copies the submission into festival_popularity with the seed score
// and marks it approved, in one transaction.
func (s *FestivalService) Approve(ctx context.Context, submissionID uuid.UUID) error {
	var submission models.FestivalSubmission
	if err := s.db.WithContext(ctx).First(&submission, "id = ?", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry := models.FestivalPopularity{
			ID:           uuid.New(),
			FestivalName: submission.FestivalName,
			Description:  submission.Description,
			State:        submission.State,
			District:     submission.District,
			Taluka:       submission.Taluka,
			Popularity:   seedPopularity,
			Source:       "User",
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return tx.Model(&submission).Update("status", models.SubmissionStatusApproved).Error
	})
}

func (s *FestivalService) Reject(ctx context.Context, submissionID uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.FestivalSubmission{}, "id = ?", submissionID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}

func (s *FestivalService) ListPopularity(ctx context.Context, state, festival string) ([]models.FestivalPopularity, error) {
	query := s.db.WithContext(ctx).Model(&models.FestivalPopularity{})
	if state != "" {
		query = query.Where("state = ?", state)
	}
	if festival != "" {
		query = query.Where("festival_name = ?", festival)
	}

	var entries []models.FestivalPopularity
	err := query.Order("popularity DESC").Find(&entries).Error
	return entries, err
}

type LocationService struct {
	db *gorm.DB
}

func NewLocationService(db *gorm.DB) *LocationService {
	return &LocationService{db: db}
}

func (s *LocationService) List(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	err := s.db.WithContext(ctx).Order("name ASC").Find(&locations).Error
	return locations, err
}

func (s *LocationService) Create(ctx context.Context, loc *models.Location) error {
	loc.ID = uuid.New()
	return s.db.WithContext(ctx).Create(loc).Error
}

func (s *LocationService) Update(ctx context.Context, id uuid.UUID, loc *models.Location) error {
	result := s.db.WithContext(ctx).Model(&models.Location{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":        loc.Name,
			"description": loc.Description,
			"category":    loc.Category,
			"latitude":    loc.Latitude,
			"longitude":   loc.Longitude,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLocationNotFound
	}
	return nil
}

func (s *LocationService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.Location{}, "id = ?", id).Error
}

// UpsertPlace inserts or replaces a popular place keyed by the caller's id.
func (s *LocationService) UpsertPlace(ctx context.Context, place *models.PopularPlace) error {
	if place.ID == "" {
		return fmt.Errorf("places: id is required")
	}
	if place.AddedAt.IsZero() {
		place.AddedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Save(place).Error
}
