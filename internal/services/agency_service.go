package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tripwiseapp/tripwise-backend/internal/models"
	"gorm.io/gorm"
)

var ErrAgencyNotFound = errors.New("agencies: agency not found")

// AgencyProfileUpdate covers the profile fields an agency may edit itself.
// Status is deliberately absent: only an admin decision changes it.
type AgencyProfileUpdate struct {
	AgencyName    string
	ContactNumber string
	Website       string
	Description   string
}

type AgencyService struct {
	db *gorm.DB
}

func NewAgencyService(db *gorm.DB) *AgencyService {
	return &AgencyService{db: db}
}

func (s *AgencyService) ListPending(ctx context.Context) ([]models.Agency, error) {
	var agencies []models.Agency
	err := s.db.WithContext(ctx).
		Where("status = ?", models.AgencyStatusPending).
		Order("created_at ASC").
		Find(&agencies).Error
	return agencies, err
}

// Approve is the admission-control transition gating agency sign-in.
func (s *AgencyService) Approve(ctx context.Context, agencyID uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.Agency{}).
		Where("id = ?", agencyID).
		Update("status", models.AgencyStatusApproved)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAgencyNotFound
	}
	return nil
}

// Reject deletes the pending agency row; the account record stays and the
// user may re-apply.
func (s *AgencyService) Reject(ctx context.Context, agencyID uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Agency{}, "id = ?", agencyID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAgencyNotFound
	}
	return nil
}

func (s *AgencyService) UpdateProfile(ctx context.Context, userID uuid.UUID, update AgencyProfileUpdate) (*models.Agency, error) {
	var agency models.Agency
	if err := s.db.WithContext(ctx).First(&agency, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgencyNotFound
		}
		return nil, err
	}

	err := s.db.WithContext(ctx).Model(&agency).Updates(map[string]interface{}{
		"agency_name":    update.AgencyName,
		"contact_number": update.ContactNumber,
		"website":        update.Website,
		"description":    update.Description,
	}).Error
	if err != nil {
		return nil, err
	}
	return &agency, nil
}

func (s *AgencyService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}
