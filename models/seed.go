package models

import (
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedSuperAdmin creates the bootstrap super admin account if it does not
// exist yet. Safe to run on every boot.
func SeedSuperAdmin(db *gorm.DB, email, password, name string) error {
	if email == "" || password == "" {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(email))

	var existing User
	if err := db.Where("email = ?", normalized).First(&existing).Error; err == nil {
		log.Printf("Super admin already exists: %s", normalized)
		return nil
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		Email:        normalized,
		PasswordHash: string(hashed),
		Name:         name,
		Role:         RoleSuperAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded super admin: %s", normalized)
	return nil
}
