package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/novalearn/novalearn-server/internal/models"
)

// ErrTestimonialNotFound indicates the requested testimonial does not exist.
var ErrTestimonialNotFound = errors.New("testimonial service: testimonial not found")

// TestimonialService manages CRUD and moderation for testimonials.
type TestimonialService struct {
	db *gorm.DB
}

// NewTestimonialService constructs a testimonial service.
func NewTestimonialService(db *gorm.DB) (*TestimonialService, error) {
	if db == nil {
		return nil, errors.New("testimonial service: db is required")
	}
	return &TestimonialService{db: db}, nil
}

// TestimonialInput captures the writable testimonial fields.
type TestimonialInput struct {
	AuthorName string
	AuthorRole string
	Quote      string
	Rating     int
}

// UpdateTestimonialInput describes mutable fields; nil means no change.
// Status moves through pending/approved/rejected via admin moderation.
type UpdateTestimonialInput struct {
	AuthorName *string
	AuthorRole *string
	Quote      *string
	Rating     *int
	Status     *string
}

// Create persists a new testimonial in the pending state.
func (s *TestimonialService) Create(ctx context.Context, input TestimonialInput) (*models.Testimonial, error) {
	testimonial := models.Testimonial{
		AuthorName: strings.TrimSpace(input.AuthorName),
		AuthorRole: strings.TrimSpace(input.AuthorRole),
		Quote:      strings.TrimSpace(input.Quote),
		Rating:     input.Rating,
		Status:     models.TestimonialStatusPending,
	}

	if err := s.db.WithContext(ctx).Create(&testimonial).Error; err != nil {
		return nil, fmt.Errorf("testimonial service: create testimonial: %w", err)
	}
	return &testimonial, nil
}

// Update applies allow-listed changes to a testimonial.
func (s *TestimonialService) Update(ctx context.Context, id string, input UpdateTestimonialInput) (*models.Testimonial, error) {
	testimonial, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.AuthorName != nil {
		updates["author_name"] = strings.TrimSpace(*input.AuthorName)
	}
	if input.AuthorRole != nil {
		updates["author_role"] = strings.TrimSpace(*input.AuthorRole)
	}
	if input.Quote != nil {
		updates["quote"] = strings.TrimSpace(*input.Quote)
	}
	if input.Rating != nil {
		updates["rating"] = *input.Rating
	}
	if input.Status != nil {
		updates["status"] = strings.TrimSpace(*input.Status)
	}

	if len(updates) == 0 {
		return testimonial, nil
	}

	if err := s.db.WithContext(ctx).Model(testimonial).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("testimonial service: update testimonial: %w", err)
	}
	return s.Get(ctx, id)
}

// Get loads a testimonial by id.
func (s *TestimonialService) Get(ctx context.Context, id string) (*models.Testimonial, error) {
	var testimonial models.Testimonial
	if err := s.db.WithContext(ctx).First(&testimonial, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestimonialNotFound
		}
		return nil, fmt.Errorf("testimonial service: get testimonial: %w", err)
	}
	return &testimonial, nil
}

// List returns testimonials newest first, optionally filtered by status.
func (s *TestimonialService) List(ctx context.Context, status string) ([]models.Testimonial, error) {
	q := s.db.WithContext(ctx).Model(&models.Testimonial{})
	if status = strings.TrimSpace(status); status != "" {
		q = q.Where("status = ?", status)
	}

	var testimonials []models.Testimonial
	if err := q.Order("created_at DESC").Find(&testimonials).Error; err != nil {
		return nil, fmt.Errorf("testimonial service: list testimonials: %w", err)
	}
	return testimonials, nil
}

// Delete removes a testimonial.
func (s *TestimonialService) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Testimonial{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("testimonial service: delete testimonial: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTestimonialNotFound
	}
	return nil
}
