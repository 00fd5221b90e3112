package app

import (
	"fmt"

	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/config"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/models"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/security"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HasAdminInitialized reports whether the system has at least one admin account.
func HasAdminInitialized(conn *gorm.DB) (bool, error) {
	if conn == nil {
		return false, fmt.Errorf("nil db")
	}
	if !conn.Migrator().HasTable(&models.Admin{}) {
		return false, nil
	}
	var count int64
	if errCount := conn.Model(&models.Admin{}).Count(&count).Error; errCount != nil {
		return false, errCount
	}
	return count > 0, nil
}

// CreateAdminUser creates an admin account with a hashed password.
func CreateAdminUser(conn *gorm.DB, username, password string) error {
	if conn == nil {
		return fmt.Errorf("nil db")
	}
	if username == "" || password == "" {
		return fmt.Errorf("app: admin username and password are required")
	}
	if len(password) < 6 {
		return fmt.Errorf("app: admin password must be at least 6 characters")
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		return errHash
	}
	admin := models.Admin{
		Username: username,
		Password: hash,
		Active:   true,
	}
	if errCreate := conn.Create(&admin).Error; errCreate != nil {
		return fmt.Errorf("app: create admin: %w", errCreate)
	}
	return nil
}

// SeedAdminFromEnv creates the first admin account from the environment on
// first boot. It does nothing once any admin exists, so a stale env var
// never clobbers a live account.
func SeedAdminFromEnv(conn *gorm.DB) error {
	initialized, errInit := HasAdminInitialized(conn)
	if errInit != nil {
		return errInit
	}
	if initialized {
		return nil
	}

	seed, ok := config.LoadAdminSeed()
	if !ok {
		log.Warnf("no admin account and no %s/%s set, admin dashboard unavailable",
			config.EnvAdminUsername, config.EnvAdminPassword)
		return nil
	}
	if errCreate := CreateAdminUser(conn, seed.Username, seed.Password); errCreate != nil {
		return errCreate
	}
	log.Infof("seeded admin account %q", seed.Username)
	return nil
}
