package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/novalearn/novalearn-server/internal/models"
)

// ErrRegistrationNotFound indicates the requested registration does not exist.
var ErrRegistrationNotFound = errors.New("registration service: registration not found")

// RegistrationService manages course-enquiry submissions and their follow-up
// pipeline.
type RegistrationService struct {
	db *gorm.DB
}

// NewRegistrationService constructs a registration service.
func NewRegistrationService(db *gorm.DB) (*RegistrationService, error) {
	if db == nil {
		return nil, errors.New("registration service: db is required")
	}
	return &RegistrationService{db: db}, nil
}

// RegistrationInput captures a public course enquiry.
type RegistrationInput struct {
	StudentName  string
	GuardianName string
	Email        string
	Phone        string
	CourseID     string
	Message      string
}

// Create persists a new registration in the "new" state. Submissions are
// public; only the fields here ever reach the store.
func (s *RegistrationService) Create(ctx context.Context, input RegistrationInput) (*models.Registration, error) {
	registration := models.Registration{
		StudentName:  strings.TrimSpace(input.StudentName),
		GuardianName: strings.TrimSpace(input.GuardianName),
		Email:        normalizeEmail(input.Email),
		Phone:        strings.TrimSpace(input.Phone),
		Message:      input.Message,
		Status:       models.RegistrationStatusNew,
	}

	if courseID := strings.TrimSpace(input.CourseID); courseID != "" {
		registration.CourseID = &courseID
	}

	if err := s.db.WithContext(ctx).Create(&registration).Error; err != nil {
		return nil, fmt.Errorf("registration service: create registration: %w", err)
	}
	return &registration, nil
}

// UpdateStatus moves a registration through the follow-up pipeline.
func (s *RegistrationService) UpdateStatus(ctx context.Context, id, status string) (*models.Registration, error) {
	registration, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	status = strings.TrimSpace(status)
	if err := s.db.WithContext(ctx).Model(registration).
		Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("registration service: update status: %w", err)
	}

	registration.Status = status
	return registration, nil
}

// Get loads a registration by id.
func (s *RegistrationService) Get(ctx context.Context, id string) (*models.Registration, error) {
	var registration models.Registration
	if err := s.db.WithContext(ctx).Preload("Course").
		First(&registration, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("registration service: get registration: %w", err)
	}
	return &registration, nil
}

// List returns registrations newest first, optionally filtered by status.
func (s *RegistrationService) List(ctx context.Context, status string) ([]models.Registration, error) {
	q := s.db.WithContext(ctx).Model(&models.Registration{}).Preload("Course")
	if status = strings.TrimSpace(status); status != "" {
		q = q.Where("status = ?", status)
	}

	var registrations []models.Registration
	if err := q.Order("created_at DESC").Find(&registrations).Error; err != nil {
		return nil, fmt.Errorf("registration service: list registrations: %w", err)
	}
	return registrations, nil
}

// Delete removes a registration.
func (s *RegistrationService) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Registration{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("registration service: delete registration: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}
