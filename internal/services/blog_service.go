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
	ErrBlogNotFound = errors.New("blogs: blog not found")
	ErrNotBlogOwner = errors.New("blogs: blog belongs to another author")
)

// BlogFilter narrows and orders the blog listing.
type BlogFilter struct {
	Category string
	Search   string
	// Sort is "oldest" or "newest"; empty means newest.
	Sort string
}

type BlogService struct {
	db         *gorm.DB
	moderation *ModerationService
}

func NewBlogService(db *gorm.DB, moderation *ModerationService) *BlogService {
	return &BlogService{db: db, moderation: moderation}
}

// Create inserts the blog and its image URL rows in one transaction. Image
// files themselves live in the external storage bucket; only URLs land here.
func (s *BlogService) Create(ctx context.Context, authorID uuid.UUID, title, content, category string, imageURLs []string) (*models.Blog, error) {
	if title == "" || content == "" {
		return nil, fmt.Errorf("blogs: title and content are required")
	}
	for _, text := range []string{title, content} {
		if ok, reason := s.moderation.FilterContent(text); !ok {
			return nil, fmt.Errorf("%w: %s", ErrContentRejected, s.moderation.GetRejectionMessage(reason))
		}
	}

	blog := models.Blog{
		ID:       uuid.New(),
		AuthorID: authorID,
		Title:    title,
		Content:  content,
		Category: category,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&blog).Error; err != nil {
			return err
		}
		for _, url := range imageURLs {
			image := models.BlogImage{
				ID:       uuid.New(),
				BlogID:   blog.ID,
				ImageURL: url,
			}
			if err := tx.Create(&image).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("blogs: create: %w", err)
	}
	return &blog, nil
}

func (s *BlogService) List(ctx context.Context, filter BlogFilter) ([]models.Blog, error) {
	query := s.db.WithContext(ctx).Model(&models.Blog{}).Preload("Images").Preload("Author")
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
	}
	if filter.Sort == "oldest" {
		query = query.Order("created_at ASC")
	} else {
		query = query.Order("created_at DESC")
	}

	var blogs []models.Blog
	if err := query.Find(&blogs).Error; err != nil {
		return nil, fmt.Errorf("blogs: list: %w", err)
	}
	return blogs, nil
}

func (s *BlogService) Get(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	var blog models.Blog
	err := s.db.WithContext(ctx).
		Preload("Images").
		Preload("Author").
		First(&blog, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

func (s *BlogService) Delete(ctx context.Context, authorID, id uuid.UUID) error {
	var blog models.Blog
	if err := s.db.WithContext(ctx).First(&blog, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBlogNotFound
		}
		return err
	}
	if blog.AuthorID != authorID {
		return ErrNotBlogOwner
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_id = ?", id).Delete(&models.BlogImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&blog).Error
	})
}
