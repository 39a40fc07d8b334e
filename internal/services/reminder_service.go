package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/novalearn/novalearn-server/internal/models"
	"github.com/novalearn/novalearn-server/pkg/logger"
	"github.com/novalearn/novalearn-server/pkg/messaging"
	"github.com/novalearn/novalearn-server/pkg/metrics"
)

// The scan fires inside a band below the configured lead time. The floor
// keeps a ~10 minute invocation cadence from re-firing reminders a prior run
// already covered; the persisted ReminderLog closes the remaining gap under
// irregular cadence.
const reminderWindowFloor = 15

// DefaultReminderLeadMinutes applies when a schedule has no lead configured.
const DefaultReminderLeadMinutes = 30

// ReminderOption customises the ReminderService.
type ReminderOption func(*ReminderService)

// WithReminderCountryCode overrides the calling code used for phone normalisation.
func WithReminderCountryCode(code string) ReminderOption {
	return func(s *ReminderService) {
		if code != "" {
			s.countryCode = code
		}
	}
}

// ReminderService scans today's class schedules and dispatches chat reminders
// to guardians and teaching staff inside the lead window.
type ReminderService struct {
	db          *gorm.DB
	messenger   messaging.Messenger
	countryCode string
	log         *zap.Logger
}

// NewReminderService constructs a reminder service.
func NewReminderService(db *gorm.DB, messenger messaging.Messenger, opts ...ReminderOption) (*ReminderService, error) {
	if db == nil {
		return nil, errors.New("reminder service: db is required")
	}
	if messenger == nil {
		return nil, errors.New("reminder service: messenger is required")
	}

	service := &ReminderService{
		db:          db,
		messenger:   messenger,
		countryCode: messaging.DefaultCountryCode,
		log:         logger.WithModule("reminders"),
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// ScanDetail records the outcome for one schedule/recipient pair.
type ScanDetail struct {
	ScheduleID string `json:"schedule_id"`
	Recipient  string `json:"recipient"`
	Status     string `json:"status"` // sent | skipped | failed
	Reason     string `json:"reason,omitempty"`
}

// ScanReport summarises a single scan invocation.
type ScanReport struct {
	Processed  int          `json:"processed"`
	Dispatched int          `json:"dispatched"`
	Details    []ScanDetail `json:"details"`
}

// Scan runs one reminder pass for the supplied wall-clock time. A failed
// send never aborts the pass; failures are reported per recipient.
func (s *ReminderService) Scan(ctx context.Context, now time.Time) (*ScanReport, error) {
	weekday := now.Weekday().String()
	nowMinutes := now.Hour()*60 + now.Minute()
	today := now.Format("2006-01-02")

	var schedules []models.ClassSchedule
	if err := s.db.WithContext(ctx).
		Preload("Student").
		Preload("Staff").
		Where("day_of_week = ? AND is_active = ? AND reminder_enabled = ?", weekday, true, true).
		Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("reminder service: load schedules: %w", err)
	}

	report := &ScanReport{}
	for _, schedule := range schedules {
		report.Processed++

		startMinutes, err := parseStartMinutes(schedule.StartTime)
		if err != nil {
			report.Details = append(report.Details, ScanDetail{
				ScheduleID: schedule.ID,
				Status:     "skipped",
				Reason:     fmt.Sprintf("bad start_time: %v", err),
			})
			continue
		}

		lead := schedule.ReminderLeadMinutes
		if lead <= 0 {
			lead = DefaultReminderLeadMinutes
		}

		minutesUntil := startMinutes - nowMinutes
		if !withinWindow(minutesUntil, lead) {
			continue
		}

		for _, target := range s.recipients(&schedule) {
			detail := s.dispatch(ctx, &schedule, today, target)
			report.Details = append(report.Details, detail)
			if detail.Status == "sent" {
				report.Dispatched++
			}
		}
	}

	return report, nil
}

// withinWindow reports whether a class this many minutes out falls in the
// dispatch band: inside the lead time but above the de-duplication floor.
func withinWindow(minutesUntil, lead int) bool {
	if minutesUntil <= 0 || minutesUntil > lead {
		return false
	}
	return minutesUntil > lead-reminderWindowFloor
}

type reminderTarget struct {
	role  string
	name  string
	phone string
	body  string
}

func (s *ReminderService) recipients(schedule *models.ClassSchedule) []reminderTarget {
	var targets []reminderTarget

	classDesc := schedule.Subject
	if classDesc == "" {
		classDesc = "class"
	}
	startClock := strings.TrimSuffix(schedule.StartTime, ":00")

	if schedule.Student != nil && schedule.Student.GuardianPhone != "" {
		studentName := schedule.Student.Name
		targets = append(targets, reminderTarget{
			role:  "guardian",
			name:  schedule.Student.GuardianName,
			phone: schedule.Student.GuardianPhone,
			body:  fmt.Sprintf("Reminder: %s has a %s lesson today at %s.", studentName, classDesc, startClock),
		})
	}

	if schedule.Staff != nil && schedule.Staff.Phone != "" {
		targets = append(targets, reminderTarget{
			role:  "staff",
			name:  schedule.Staff.FirstName,
			phone: schedule.Staff.Phone,
			body:  fmt.Sprintf("Reminder: you have a %s lesson today at %s.", classDesc, startClock),
		})
	}

	return targets
}

func (s *ReminderService) dispatch(ctx context.Context, schedule *models.ClassSchedule, date string, target reminderTarget) ScanDetail {
	detail := ScanDetail{ScheduleID: schedule.ID, Recipient: target.role}

	phone, err := messaging.NormalizePhone(target.phone, s.countryCode)
	if err != nil {
		s.log.Warn("skipping reminder with unusable phone number",
			zap.String("schedule_id", schedule.ID),
			zap.String("recipient", target.role),
			zap.Error(err),
		)
		metrics.ReminderDispatches.WithLabelValues("skipped").Inc()
		detail.Status = "skipped"
		detail.Reason = "phone number not in international format"
		return detail
	}

	if s.alreadySent(ctx, schedule.ID, date, phone) {
		metrics.ReminderDispatches.WithLabelValues("skipped").Inc()
		detail.Status = "skipped"
		detail.Reason = "already sent today"
		return detail
	}

	if err := s.messenger.SendText(ctx, phone, target.body); err != nil {
		s.log.Warn("reminder send failed",
			zap.String("schedule_id", schedule.ID),
			zap.String("recipient", target.role),
			zap.Error(err),
		)
		metrics.ReminderDispatches.WithLabelValues("failed").Inc()
		detail.Status = "failed"
		detail.Reason = err.Error()
		return detail
	}

	s.recordSent(ctx, schedule.ID, date, phone)
	metrics.ReminderDispatches.WithLabelValues("sent").Inc()
	detail.Status = "sent"
	return detail
}

func (s *ReminderService) alreadySent(ctx context.Context, scheduleID, date, recipient string) bool {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.ReminderLog{}).
		Where("schedule_id = ? AND date = ? AND recipient = ?", scheduleID, date, recipient).
		Count(&count).Error; err != nil {
		s.log.Warn("reminder log lookup failed", zap.Error(err))
		return false
	}
	return count > 0
}

func (s *ReminderService) recordSent(ctx context.Context, scheduleID, date, recipient string) {
	entry := models.ReminderLog{ScheduleID: scheduleID, Date: date, Recipient: recipient}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil && !isUniqueConstraintError(err) {
		s.log.Warn("reminder log write failed", zap.Error(err))
	}
}

// DeleteLogsBefore removes reminder log rows older than the cutoff date.
// Used by the maintenance job.
func (s *ReminderService) DeleteLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("date < ?", cutoff.Format("2006-01-02")).
		Delete(&models.ReminderLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("reminder service: delete logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// parseStartMinutes converts an HH:MM:SS (or HH:MM) clock string to minutes
// since midnight.
func parseStartMinutes(clock string) (int, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("expected HH:MM[:SS], got %q", clock)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("bad hour in %q", clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("bad minute in %q", clock)
	}

	return hour*60 + minute, nil
}
