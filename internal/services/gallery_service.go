package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/novalearn/novalearn-server/internal/models"
)

// ErrGalleryImageNotFound indicates the requested image does not exist.
var ErrGalleryImageNotFound = errors.New("gallery service: image not found")

// GalleryService manages CRUD for gallery images.
type GalleryService struct {
	db *gorm.DB
}

// NewGalleryService constructs a gallery service.
func NewGalleryService(db *gorm.DB) (*GalleryService, error) {
	if db == nil {
		return nil, errors.New("gallery service: db is required")
	}
	return &GalleryService{db: db}, nil
}

// GalleryImageInput captures the writable image fields.
type GalleryImageInput struct {
	Title    string
	ImageURL string
	Category string
	Status   string
}

// UpdateGalleryImageInput describes mutable image fields; nil means no change.
type UpdateGalleryImageInput struct {
	Title    *string
	ImageURL *string
	Category *string
	Status   *string
}

// Create persists a new gallery image.
func (s *GalleryService) Create(ctx context.Context, input GalleryImageInput) (*models.GalleryImage, error) {
	image := models.GalleryImage{
		Title:    strings.TrimSpace(input.Title),
		ImageURL: strings.TrimSpace(input.ImageURL),
		Category: strings.TrimSpace(input.Category),
		Status:   models.ContentStatusDraft,
	}
	if status := strings.TrimSpace(input.Status); status != "" {
		image.Status = status
	}

	if err := s.db.WithContext(ctx).Create(&image).Error; err != nil {
		return nil, fmt.Errorf("gallery service: create image: %w", err)
	}
	return &image, nil
}

// Update applies allow-listed changes to an image.
func (s *GalleryService) Update(ctx context.Context, id string, input UpdateGalleryImageInput) (*models.GalleryImage, error) {
	image, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.ImageURL != nil {
		updates["image_url"] = strings.TrimSpace(*input.ImageURL)
	}
	if input.Category != nil {
		updates["category"] = strings.TrimSpace(*input.Category)
	}
	if input.Status != nil {
		updates["status"] = strings.TrimSpace(*input.Status)
	}

	if len(updates) == 0 {
		return image, nil
	}

	if err := s.db.WithContext(ctx).Model(image).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("gallery service: update image: %w", err)
	}
	return s.Get(ctx, id)
}

// Get loads an image by id.
func (s *GalleryService) Get(ctx context.Context, id string) (*models.GalleryImage, error) {
	var image models.GalleryImage
	if err := s.db.WithContext(ctx).First(&image, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGalleryImageNotFound
		}
		return nil, fmt.Errorf("gallery service: get image: %w", err)
	}
	return &image, nil
}

// List returns images newest first, optionally filtered by status and category.
func (s *GalleryService) List(ctx context.Context, status, category string) ([]models.GalleryImage, error) {
	q := s.db.WithContext(ctx).Model(&models.GalleryImage{})
	if status = strings.TrimSpace(status); status != "" {
		q = q.Where("status = ?", status)
	}
	if category = strings.TrimSpace(category); category != "" {
		q = q.Where("category = ?", category)
	}

	var images []models.GalleryImage
	if err := q.Order("created_at DESC").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("gallery service: list images: %w", err)
	}
	return images, nil
}

// Delete removes an image.
func (s *GalleryService) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.GalleryImage{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("gallery service: delete image: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrGalleryImageNotFound
	}
	return nil
}
