package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tripwiseapp/tripwise-backend/internal/models"
	"github.com/tripwiseapp/tripwise-backend/internal/session"
	"gorm.io/gorm"
)

// GormAuthStore implements AuthStore over the application database.
type GormAuthStore struct {
	db *gorm.DB
}

func NewGormAuthStore(db *gorm.DB) *GormAuthStore {
	return &GormAuthStore{db: db}
}

func (s *GormAuthStore) CreateAccount(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *GormAuthStore) CreateAgency(ctx context.Context, agency *models.Agency) error {
	return s.db.WithContext(ctx).Create(agency).Error
}

func (s *GormAuthStore) CreateAdminProfile(ctx context.Context, profile *models.AdminProfile) error {
	return s.db.WithContext(ctx).Create(profile).Error
}

func (s *GormAuthStore) AgencyByUserID(ctx context.Context, userID uuid.UUID) (*models.Agency, error) {
	var agency models.Agency
	if err := s.db.WithContext(ctx).First(&agency, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, session.ErrAgencyProfileMissing
		}
		return nil, err
	}
	return &agency, nil
}

func (s *GormAuthStore) UpdateAccount(ctx context.Context, userID uuid.UUID, fullname, avatar string) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{"fullname": fullname, "avatar": avatar})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return session.ErrProfileNotFound
	}
	return nil
}

// DeleteAccountData removes every application row owned by the user. The
// identity itself is deleted afterwards by the identity provider.
func (s *GormAuthStore) DeleteAccountData(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.WishlistItem{}).Error; err != nil {
			return err
		}
		var blogIDs []uuid.UUID
		if err := tx.Model(&models.Blog{}).Where("author_id = ?", userID).Pluck("id", &blogIDs).Error; err != nil {
			return err
		}
		if len(blogIDs) > 0 {
			if err := tx.Where("blog_id IN ?", blogIDs).Delete(&models.BlogImage{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", blogIDs).Delete(&models.Blog{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("submitted_by = ?", userID).Delete(&models.FestivalSubmission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Agency{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.AdminProfile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", userID).Error
	})
}
