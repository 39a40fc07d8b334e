package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/novalearn/novalearn-server/internal/models"
)

// ErrPortfolioItemNotFound indicates the requested item does not exist.
var ErrPortfolioItemNotFound = errors.New("portfolio service: item not found")

// PortfolioService manages CRUD for showcased engagements.
type PortfolioService struct {
	db *gorm.DB
}

// NewPortfolioService constructs a portfolio service.
func NewPortfolioService(db *gorm.DB) (*PortfolioService, error) {
	if db == nil {
		return nil, errors.New("portfolio service: db is required")
	}
	return &PortfolioService{db: db}, nil
}

// PortfolioItemInput captures the writable item fields.
type PortfolioItemInput struct {
	Title       string
	Description string
	ImageURL    string
	ClientName  string
	Status      string
}

// UpdatePortfolioItemInput describes mutable item fields; nil means no change.
type UpdatePortfolioItemInput struct {
	Title       *string
	Description *string
	ImageURL    *string
	ClientName  *string
	Status      *string
}

// Create persists a new portfolio item.
func (s *PortfolioService) Create(ctx context.Context, input PortfolioItemInput) (*models.PortfolioItem, error) {
	item := models.PortfolioItem{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		ClientName:  strings.TrimSpace(input.ClientName),
		Status:      models.ContentStatusDraft,
	}
	if status := strings.TrimSpace(input.Status); status != "" {
		item.Status = status
	}

	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("portfolio service: create item: %w", err)
	}
	return &item, nil
}

// Update applies allow-listed changes to an item.
func (s *PortfolioService) Update(ctx context.Context, id string, input UpdatePortfolioItemInput) (*models.PortfolioItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.ImageURL != nil {
		updates["image_url"] = strings.TrimSpace(*input.ImageURL)
	}
	if input.ClientName != nil {
		updates["client_name"] = strings.TrimSpace(*input.ClientName)
	}
	if input.Status != nil {
		updates["status"] = strings.TrimSpace(*input.Status)
	}

	if len(updates) == 0 {
		return item, nil
	}

	if err := s.db.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("portfolio service: update item: %w", err)
	}
	return s.Get(ctx, id)
}

// Get loads an item by id.
func (s *PortfolioService) Get(ctx context.Context, id string) (*models.PortfolioItem, error) {
	var item models.PortfolioItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPortfolioItemNotFound
		}
		return nil, fmt.Errorf("portfolio service: get item: %w", err)
	}
	return &item, nil
}

// List returns items newest first, optionally filtered by status.
func (s *PortfolioService) List(ctx context.Context, status string) ([]models.PortfolioItem, error) {
	q := s.db.WithContext(ctx).Model(&models.PortfolioItem{})
	if status = strings.TrimSpace(status); status != "" {
		q = q.Where("status = ?", status)
	}

	var items []models.PortfolioItem
	if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("portfolio service: list items: %w", err)
	}
	return items, nil
}

// Delete removes an item.
func (s *PortfolioService) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.PortfolioItem{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("portfolio service: delete item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPortfolioItemNotFound
	}
	return nil
}
