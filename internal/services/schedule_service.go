package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/novalearn/novalearn-server/internal/models"
)

var (
	// ErrStudentNotFound indicates the requested student does not exist.
	ErrStudentNotFound = errors.New("schedule service: student not found")
	// ErrScheduleNotFound indicates the requested schedule does not exist.
	ErrScheduleNotFound = errors.New("schedule service: schedule not found")
	// ErrBadDayOfWeek indicates a day name that does not match a weekday.
	ErrBadDayOfWeek = errors.New("schedule service: invalid day of week")
)

var weekdays = map[string]struct{}{
	"Sunday": {}, "Monday": {}, "Tuesday": {}, "Wednesday": {},
	"Thursday": {}, "Friday": {}, "Saturday": {},
}

// ScheduleService manages students and their weekly class slots.
type ScheduleService struct {
	db *gorm.DB
}

// NewScheduleService constructs a schedule service.
func NewScheduleService(db *gorm.DB) (*ScheduleService, error) {
	if db == nil {
		return nil, errors.New("schedule service: db is required")
	}
	return &ScheduleService{db: db}, nil
}

// StudentInput captures the writable student fields.
type StudentInput struct {
	Name          string
	GuardianName  string
	GuardianPhone string
	School        string
}

// CreateStudent persists a new student record.
func (s *ScheduleService) CreateStudent(ctx context.Context, input StudentInput) (*models.Student, error) {
	student := models.Student{
		Name:          strings.TrimSpace(input.Name),
		GuardianName:  strings.TrimSpace(input.GuardianName),
		GuardianPhone: strings.TrimSpace(input.GuardianPhone),
		School:        strings.TrimSpace(input.School),
	}

	if err := s.db.WithContext(ctx).Create(&student).Error; err != nil {
		return nil, fmt.Errorf("schedule service: create student: %w", err)
	}
	return &student, nil
}

// ListStudents returns students newest first.
func (s *ScheduleService) ListStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("schedule service: list students: %w", err)
	}
	return students, nil
}

// ScheduleInput captures the writable schedule fields.
type ScheduleInput struct {
	StudentID           string
	StaffID             string
	Subject             string
	DayOfWeek           string
	StartTime           string // HH:MM:SS
	ReminderEnabled     *bool
	ReminderLeadMinutes int
	IsActive            *bool
}

// CreateSchedule persists a weekly class slot after checking the day name
// and clock format.
func (s *ScheduleService) CreateSchedule(ctx context.Context, input ScheduleInput) (*models.ClassSchedule, error) {
	day := normalizeDay(input.DayOfWeek)
	if _, ok := weekdays[day]; !ok {
		return nil, ErrBadDayOfWeek
	}
	if _, err := parseStartMinutes(input.StartTime); err != nil {
		return nil, fmt.Errorf("schedule service: %w", err)
	}

	schedule := models.ClassSchedule{
		StudentID:           strings.TrimSpace(input.StudentID),
		StaffID:             strings.TrimSpace(input.StaffID),
		Subject:             strings.TrimSpace(input.Subject),
		DayOfWeek:           day,
		StartTime:           strings.TrimSpace(input.StartTime),
		ReminderEnabled:     true,
		ReminderLeadMinutes: DefaultReminderLeadMinutes,
		IsActive:            true,
	}

	if input.ReminderEnabled != nil {
		schedule.ReminderEnabled = *input.ReminderEnabled
	}
	if input.ReminderLeadMinutes > 0 {
		schedule.ReminderLeadMinutes = input.ReminderLeadMinutes
	}
	if input.IsActive != nil {
		schedule.IsActive = *input.IsActive
	}

	if err := s.db.WithContext(ctx).Create(&schedule).Error; err != nil {
		return nil, fmt.Errorf("schedule service: create schedule: %w", err)
	}
	return &schedule, nil
}

// ListSchedules returns schedules newest first, optionally filtered by day.
func (s *ScheduleService) ListSchedules(ctx context.Context, dayOfWeek string) ([]models.ClassSchedule, error) {
	q := s.db.WithContext(ctx).Model(&models.ClassSchedule{}).
		Preload("Student").Preload("Staff")
	if day := strings.TrimSpace(dayOfWeek); day != "" {
		q = q.Where("day_of_week = ?", normalizeDay(day))
	}

	var schedules []models.ClassSchedule
	if err := q.Order("created_at DESC").Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("schedule service: list schedules: %w", err)
	}
	return schedules, nil
}

func normalizeDay(day string) string {
	day = strings.ToLower(strings.TrimSpace(day))
	if day == "" {
		return ""
	}
	return strings.ToUpper(day[:1]) + day[1:]
}

// DeleteSchedule removes a class slot.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.ClassSchedule{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("schedule service: delete schedule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}
