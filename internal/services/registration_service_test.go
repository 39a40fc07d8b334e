package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/novalearn/novalearn-server/internal/models"
)

func TestRegistrationCreateStartsNew(t *testing.T) {
	db := openRegistrationTestDB(t)
	svc, err := NewRegistrationService(db)
	require.NoError(t, err)

	registration, err := svc.Create(context.Background(), RegistrationInput{
		StudentName: "Tolu",
		Email:       "Guardian@Example.com",
		Phone:       " 08012345678 ",
	})
	require.NoError(t, err)
	require.Equal(t, models.RegistrationStatusNew, registration.Status)
	require.Equal(t, "guardian@example.com", registration.Email)
	require.Equal(t, "08012345678", registration.Phone)
	require.Nil(t, registration.CourseID)
}

func TestRegistrationPipelineAndCourseLink(t *testing.T) {
	db := openRegistrationTestDB(t)
	svc, err := NewRegistrationService(db)
	require.NoError(t, err)

	course := models.Course{Title: "Piano Basics", Status: models.ContentStatusPublished}
	require.NoError(t, db.Create(&course).Error)

	ctx := context.Background()
	registration, err := svc.Create(ctx, RegistrationInput{
		StudentName: "Tolu",
		Email:       "guardian@example.com",
		CourseID:    course.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, registration.CourseID)

	registration, err = svc.UpdateStatus(ctx, registration.ID, models.RegistrationStatusContacted)
	require.NoError(t, err)
	require.Equal(t, models.RegistrationStatusContacted, registration.Status)

	contacted, err := svc.List(ctx, models.RegistrationStatusContacted)
	require.NoError(t, err)
	require.Len(t, contacted, 1)
	require.NotNil(t, contacted[0].Course)
	require.Equal(t, "Piano Basics", contacted[0].Course.Title)

	fresh, err := svc.List(ctx, models.RegistrationStatusNew)
	require.NoError(t, err)
	require.Empty(t, fresh)
}

func TestRegistrationNotFound(t *testing.T) {
	db := openRegistrationTestDB(t)
	svc, err := NewRegistrationService(db)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrRegistrationNotFound)

	_, err = svc.UpdateStatus(context.Background(), "missing", models.RegistrationStatusClosed)
	require.ErrorIs(t, err, ErrRegistrationNotFound)

	require.ErrorIs(t, svc.Delete(context.Background(), "missing"), ErrRegistrationNotFound)
}

func openRegistrationTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Course{},
		&models.Registration{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}
