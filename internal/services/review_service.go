package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tripwiseapp/tripwise-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrInvalidRating     = errors.New("reviews: rating must be between 1 and 5")
	ErrReviewNotFound    = errors.New("reviews: review not found")
	ErrNotReviewOwner    = errors.New("reviews: review belongs to another user")
	ErrContentRejected   = errors.New("content rejected by moderation")
	ErrAlreadyWishlisted = errors.New("wishlist: package already saved")
)

type ReviewService struct {
	db         *gorm.DB
	moderation *ModerationService
}

func NewReviewService(db *gorm.DB, moderation *ModerationService) *ReviewService {
	return &ReviewService{db: db, moderation: moderation}
}

func (s *ReviewService) Create(ctx context.Context, userID, packageID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if ok, reason := s.moderation.FilterContent(comment); !ok {
		return nil, fmt.Errorf("%w: %s", ErrContentRejected, s.moderation.GetRejectionMessage(reason))
	}

	var pkg models.TourPackage
	if err := s.db.WithContext(ctx).First(&pkg, "id = ?", packageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}

	review := models.Review{
		ID:        uuid.New(),
		PackageID: packageID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
		return nil, fmt.Errorf("reviews: create: %w", err)
	}
	return &review, nil
}

// ListByPackage returns a package's reviews with the reviewer preloaded, a
// database join rather than the in-memory id matching the old client did.
func (s *ReviewService) ListByPackage(ctx context.Context, packageID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("package_id = ?", packageID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (s *ReviewService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Preload("Package").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (s *ReviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, "id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if review.UserID != userID {
		return ErrNotReviewOwner
	}
	return s.db.WithContext(ctx).Delete(&review).Error
}

type WishlistService struct {
	db *gorm.DB
}

func NewWishlistService(db *gorm.DB) *WishlistService {
	return &WishlistService{db: db}
}

func (s *WishlistService) Add(ctx context.Context, userID, packageID uuid.UUID) (*models.WishlistItem, error) {
	var pkg models.TourPackage
	if err := s.db.WithContext(ctx).First(&pkg, "id = ?", packageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}

	var existing models.WishlistItem
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND package_id = ?", userID, packageID).
		First(&existing).Error; err == nil {
		return nil, ErrAlreadyWishlisted
	}

	item := models.WishlistItem{
		ID:        uuid.New(),
		UserID:    userID,
		PackageID: packageID,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("wishlist: add: %w", err)
	}
	return &item, nil
}

func (s *WishlistService) List(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := s.db.WithContext(ctx).
		Preload("Package").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (s *WishlistService) Remove(ctx context.Context, userID, packageID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND package_id = ?", userID, packageID).
		Delete(&models.WishlistItem{}).Error
}
