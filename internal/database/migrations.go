package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/novalearn/novalearn-server/internal/models"
	"github.com/novalearn/novalearn-server/pkg/crypto"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.VerificationToken{},
		&models.Student{},
		&models.ClassSchedule{},
		&models.ReminderLog{},
		&models.BlogPost{},
		&models.Course{},
		&models.GalleryImage{},
		&models.PortfolioItem{},
		&models.Testimonial{},
		&models.Registration{},
	)
}

// SeedConfig describes the bootstrap administrator created on first start.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

// SeedData creates the bootstrap admin account when one is configured and no
// active admin exists yet. A fresh deployment needs at least one operator who
// can approve signups.
func SeedData(db *gorm.DB, cfg SeedConfig) error {
	email := strings.TrimSpace(strings.ToLower(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.Account{}).
		Where("kind = ? AND status = ?", models.KindAdmin, models.AccountStatusActive).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := crypto.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := models.Account{
		Kind:     models.KindAdmin,
		Email:    email,
		Status:   models.AccountStatusActive,
		Role:     models.RoleAdmin,
		Password: hash,
	}

	return db.Where(models.Account{Kind: models.KindAdmin, Email: email}).
		Attrs(admin).
		FirstOrCreate(&models.Account{}).Error
}
