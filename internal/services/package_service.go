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
	ErrPackageNotFound = errors.New("packages: package not found")
	ErrNotPackageOwner = errors.New("packages: package belongs to another agency")
	ErrInvalidCategory = errors.New("packages: unknown category")
)

// PackageFilter narrows and orders the public package listing.
type PackageFilter struct {
	Category string
	Location string
	MaxPrice float64
	// Sort is one of "price_asc", "price_desc", "newest"; empty means newest.
	Sort string
}

type PackageInput struct {
	Title       string
	Description string
	Price       float64
	Location    string
	Duration    int
	StartDate   time.Time
	EndDate     time.Time
	Category    string
}

type PackageService struct {
	db *gorm.DB
}

func NewPackageService(db *gorm.DB) *PackageService {
	return &PackageService{db: db}
}

func (s *PackageService) List(ctx context.Context, filter PackageFilter) ([]models.TourPackage, error) {
	query := s.db.WithContext(ctx).Model(&models.TourPackage{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Location != "" {
		query = query.Where("location ILIKE ?", "%"+filter.Location+"%")
	}
	if filter.MaxPrice > 0 {
		query = query.Where("price <= ?", filter.MaxPrice)
	}
	switch filter.Sort {
	case "price_asc":
		query = query.Order("price ASC")
	case "price_desc":
		query = query.Order("price DESC")
	default:
		query = query.Order("created_at DESC")
	}

	var packages []models.TourPackage
	if err := query.Find(&packages).Error; err != nil {
		return nil, fmt.Errorf("packages: list: %w", err)
	}
	return packages, nil
}

func (s *PackageService) Get(ctx context.Context, id uuid.UUID) (*models.TourPackage, error) {
	var pkg models.TourPackage
	if err := s.db.WithContext(ctx).Preload("Agency").First(&pkg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return &pkg, nil
}

func (s *PackageService) ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]models.TourPackage, error) {
	var packages []models.TourPackage
	err := s.db.WithContext(ctx).
		Where("agency_id = ?", agencyID).
		Order("created_at DESC").
		Find(&packages).Error
	return packages, err
}

func (s *PackageService) Create(ctx context.Context, agencyID uuid.UUID, in PackageInput) (*models.TourPackage, error) {
	if !validCategory(in.Category) {
		return nil, ErrInvalidCategory
	}
	pkg := models.TourPackage{
		ID:          uuid.New(),
		AgencyID:    agencyID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Location:    in.Location,
		Duration:    in.Duration,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Category:    in.Category,
	}
	if err := s.db.WithContext(ctx).Create(&pkg).Error; err != nil {
		return nil, fmt.Errorf("packages: create: %w", err)
	}
	return &pkg, nil
}

func (s *PackageService) Update(ctx context.Context, agencyID, id uuid.UUID, in PackageInput) (*models.TourPackage, error) {
	pkg, err := s.ownedPackage(ctx, agencyID, id)
	if err != nil {
		return nil, err
	}
	if !validCategory(in.Category) {
		return nil, ErrInvalidCategory
	}

	updates := map[string]interface{}{
		"title":       in.Title,
		"description": in.Description,
		"price":       in.Price,
		"location":    in.Location,
		"duration":    in.Duration,
		"start_date":  in.StartDate,
		"end_date":    in.EndDate,
		"category":    in.Category,
	}
	if err := s.db.WithContext(ctx).Model(pkg).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("packages: update: %w", err)
	}
	return pkg, nil
}

func (s *PackageService) Delete(ctx context.Context, agencyID, id uuid.UUID) error {
	pkg, err := s.ownedPackage(ctx, agencyID, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(pkg).Error
}

func (s *PackageService) ownedPackage(ctx context.Context, agencyID, id uuid.UUID) (*models.TourPackage, error) {
	var pkg models.TourPackage
	if err := s.db.WithContext(ctx).First(&pkg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	if pkg.AgencyID != agencyID {
		return nil, ErrNotPackageOwner
	}
	return &pkg, nil
}

func validCategory(category string) bool {
	for _, c := range models.PackageCategories {
		if c == category {
			return true
		}
	}
	return false
}
