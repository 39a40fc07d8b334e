package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/novalearn/novalearn-server/internal/models"
)

// ErrCourseNotFound indicates the requested course does not exist.
var ErrCourseNotFound = errors.New("course service: course not found")

// CourseService manages CRUD for course offerings.
type CourseService struct {
	db *gorm.DB
}

// NewCourseService constructs a course service.
func NewCourseService(db *gorm.DB) (*CourseService, error) {
	if db == nil {
		return nil, errors.New("course service: db is required")
	}
	return &CourseService{db: db}, nil
}

// CourseInput captures the writable course fields.
type CourseInput struct {
	Title         string
	Description   string
	Level         string
	DurationWeeks int
	Price         float64
	Syllabus      []string
	Status        string
}

// UpdateCourseInput describes mutable course fields; nil means no change.
type UpdateCourseInput struct {
	Title         *string
	Description   *string
	Level         *string
	DurationWeeks *int
	Price         *float64
	Syllabus      []string
	Status        *string
}

// Create persists a new course.
func (s *CourseService) Create(ctx context.Context, input CourseInput) (*models.Course, error) {
	course := models.Course{
		Title:         strings.TrimSpace(input.Title),
		Description:   input.Description,
		Level:         strings.TrimSpace(input.Level),
		DurationWeeks: input.DurationWeeks,
		Price:         input.Price,
		Status:        models.ContentStatusDraft,
	}

	if status := strings.TrimSpace(input.Status); status != "" {
		course.Status = status
	}
	if len(input.Syllabus) > 0 {
		raw, err := json.Marshal(input.Syllabus)
		if err != nil {
			return nil, fmt.Errorf("course service: encode syllabus: %w", err)
		}
		course.Syllabus = datatypes.JSON(raw)
	}

	if err := s.db.WithContext(ctx).Create(&course).Error; err != nil {
		return nil, fmt.Errorf("course service: create course: %w", err)
	}
	return &course, nil
}

// Update applies allow-listed changes to a course.
func (s *CourseService) Update(ctx context.Context, id string, input UpdateCourseInput) (*models.Course, error) {
	course, err := s.Get(ctx, id)
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
	if input.Level != nil {
		updates["level"] = strings.TrimSpace(*input.Level)
	}
	if input.DurationWeeks != nil {
		updates["duration_weeks"] = *input.DurationWeeks
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.Status != nil {
		updates["status"] = strings.TrimSpace(*input.Status)
	}
	if input.Syllabus != nil {
		raw, err := json.Marshal(input.Syllabus)
		if err != nil {
			return nil, fmt.Errorf("course service: encode syllabus: %w", err)
		}
		updates["syllabus"] = datatypes.JSON(raw)
	}

	if len(updates) == 0 {
		return course, nil
	}

	if err := s.db.WithContext(ctx).Model(course).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("course service: update course: %w", err)
	}
	return s.Get(ctx, id)
}

// Get loads a course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := s.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("course service: get course: %w", err)
	}
	return &course, nil
}

// List returns courses newest first, optionally filtered by status.
func (s *CourseService) List(ctx context.Context, status string) ([]models.Course, error) {
	q := s.db.WithContext(ctx).Model(&models.Course{})
	if status = strings.TrimSpace(status); status != "" {
		q = q.Where("status = ?", status)
	}

	var courses []models.Course
	if err := q.Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("course service: list courses: %w", err)
	}
	return courses, nil
}

// Delete removes a course.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Course{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("course service: delete course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}
