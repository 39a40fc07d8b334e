package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/novalearn/novalearn-server/internal/models"
)

func TestCreateScheduleValidatesDayAndTime(t *testing.T) {
	db := openScheduleTestDB(t)
	svc, err := NewScheduleService(db)
	require.NoError(t, err)

	ctx := context.Background()
	student, err := svc.CreateStudent(ctx, StudentInput{Name: "Tolu"})
	require.NoError(t, err)

	_, err = svc.CreateSchedule(ctx, ScheduleInput{
		StudentID: student.ID,
		DayOfWeek: "Funday",
		StartTime: "16:00:00",
	})
	require.ErrorIs(t, err, ErrBadDayOfWeek)

	_, err = svc.CreateSchedule(ctx, ScheduleInput{
		StudentID: student.ID,
		DayOfWeek: "Monday",
		StartTime: "25:99",
	})
	require.Error(t, err)

	schedule, err := svc.CreateSchedule(ctx, ScheduleInput{
		StudentID: student.ID,
		Subject:   "piano",
		DayOfWeek: "monday", // case-insensitive
		StartTime: "16:00:00",
	})
	require.NoError(t, err)
	require.Equal(t, "Monday", schedule.DayOfWeek)
	require.True(t, schedule.ReminderEnabled)
	require.True(t, schedule.IsActive)
	require.Equal(t, DefaultReminderLeadMinutes, schedule.ReminderLeadMinutes)
}

func TestCreateScheduleHonoursExplicitFlags(t *testing.T) {
	db := openScheduleTestDB(t)
	svc, err := NewScheduleService(db)
	require.NoError(t, err)

	ctx := context.Background()
	student, err := svc.CreateStudent(ctx, StudentInput{Name: "Tolu"})
	require.NoError(t, err)

	off := false
	schedule, err := svc.CreateSchedule(ctx, ScheduleInput{
		StudentID:           student.ID,
		DayOfWeek:           "Tuesday",
		StartTime:           "09:30:00",
		ReminderEnabled:     &off,
		ReminderLeadMinutes: 60,
	})
	require.NoError(t, err)

	// Reload to confirm the explicit false survived the insert.
	var stored models.ClassSchedule
	require.NoError(t, db.First(&stored, "id = ?", schedule.ID).Error)
	require.False(t, stored.ReminderEnabled)
	require.Equal(t, 60, stored.ReminderLeadMinutes)
}

func TestListSchedulesFiltersByDay(t *testing.T) {
	db := openScheduleTestDB(t)
	svc, err := NewScheduleService(db)
	require.NoError(t, err)

	ctx := context.Background()
	student, err := svc.CreateStudent(ctx, StudentInput{Name: "Tolu"})
	require.NoError(t, err)

	_, err = svc.CreateSchedule(ctx, ScheduleInput{StudentID: student.ID, DayOfWeek: "Monday", StartTime: "16:00:00"})
	require.NoError(t, err)
	_, err = svc.CreateSchedule(ctx, ScheduleInput{StudentID: student.ID, DayOfWeek: "Wednesday", StartTime: "10:00:00"})
	require.NoError(t, err)

	mondays, err := svc.ListSchedules(ctx, "monday")
	require.NoError(t, err)
	require.Len(t, mondays, 1)

	all, err := svc.ListSchedules(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestDeleteSchedule(t *testing.T) {
	db := openScheduleTestDB(t)
	svc, err := NewScheduleService(db)
	require.NoError(t, err)

	ctx := context.Background()
	student, err := svc.CreateStudent(ctx, StudentInput{Name: "Tolu"})
	require.NoError(t, err)

	schedule, err := svc.CreateSchedule(ctx, ScheduleInput{StudentID: student.ID, DayOfWeek: "Monday", StartTime: "16:00:00"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSchedule(ctx, schedule.ID))
	require.ErrorIs(t, svc.DeleteSchedule(ctx, schedule.ID), ErrScheduleNotFound)
}

func openScheduleTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.Student{},
		&models.ClassSchedule{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}
