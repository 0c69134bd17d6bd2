package config

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yourusername/swiftpay-review/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedEmployee creates the configured employee account if no user with that
// email exists yet. It does nothing when no seed is configured.
func SeedEmployee(db *gorm.DB, cfg *Config) error {
	seed := cfg.SeedEmployee
	if seed.Email == "" {
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", seed.Email).Take(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up seed employee: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed employee password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        seed.Email,
		FirstName:    seed.FirstName,
		LastName:     seed.LastName,
		PasswordHash: string(hash),
		Role:         "Employee",
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("create seed employee: %w", err)
	}
	return nil
}
