package models

// Student is an enrolled learner whose guardian receives class reminders.
type Student struct {
	BaseModel

	Name          string `gorm:"not null" json:"name"`
	GuardianName  string `json:"guardian_name"`
	GuardianPhone string `json:"guardian_phone"`
	School        string `json:"school"`
}

// ClassSchedule describes a recurring weekly lesson slot. The reminder scan
// reads these rows; it never mutates them.
type ClassSchedule struct {
	BaseModel

	StudentID string   `gorm:"type:uuid;not null;index" json:"student_id"`
	Student   *Student `json:"student,omitempty"`

	StaffID string   `gorm:"type:uuid;not null;index" json:"staff_id"`
	Staff   *Account `json:"staff,omitempty"`

	Subject   string `json:"subject"`
	DayOfWeek string `gorm:"not null;index" json:"day_of_week"`
	StartTime string `gorm:"not null" json:"start_time"` // HH:MM:SS

	// Plain bools on purpose: a gorm default tag would drop explicit false
	// values on insert.
	ReminderEnabled     bool `json:"reminder_enabled"`
	ReminderLeadMinutes int  `gorm:"default:30" json:"reminder_lead_minutes"`
	IsActive            bool `gorm:"index" json:"is_active"`
}

// ReminderLog records a dispatched reminder so irregular scheduler cadence
// cannot double-send within the same day.
type ReminderLog struct {
	BaseModel

	ScheduleID string `gorm:"type:uuid;not null;uniqueIndex:idx_reminder_once" json:"schedule_id"`
	Date       string `gorm:"not null;uniqueIndex:idx_reminder_once" json:"date"` // YYYY-MM-DD
	Recipient  string `gorm:"not null;uniqueIndex:idx_reminder_once" json:"recipient"`
}
