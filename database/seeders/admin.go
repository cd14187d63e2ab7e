package seeders

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"courier-booking/models/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PasswordHasher is satisfied by *auth.PasswordHasher
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// SeedAdmin makes sure an admin account exists for email. An existing account is promoted,
// its password is left alone.
func SeedAdmin(db *gorm.DB, hasher PasswordHasher, email, password string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("admin email is required")
	}
	log.Printf("🔍 Checking admin account %s...", email)

	var existing user.User
	err := db.Where("email = ? AND deleted_at IS NULL", email).First(&existing).Error
	switch {
	case err == nil:
		if existing.IsAdmin {
			log.Printf("✅ %s is already an admin. No seeding needed.", email)
			return &existing, nil
		}
		if err := db.Model(&existing).Update("is_admin", true).Error; err != nil {
			return nil, fmt.Errorf("promote %s: %w", email, err)
		}
		existing.IsAdmin = true
		log.Printf("🎉 Promoted existing account %s to admin", email)
		return &existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("look up %s: %w", email, err)
	}

	if len(password) < 8 {
		return nil, errors.New("admin password must be at least 8 characters")
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	admin := user.User{
		Uuid:         uuid.NewString(),
		Email:        email,
		IsAdmin:      true,
		PasswordHash: hash,
	}
	if err := db.Create(&admin).Error; err != nil {
		return nil, fmt.Errorf("create admin %s: %w", email, err)
	}
	log.Printf("🌱 Created admin account %s", email)
	return &admin, nil
}
