package models

import (
	"log"

	sqliteEncrypt "github.com/Daskott/gorm-sqlite-cipher"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// InitializeTestDb points the package at a fresh in-memory store. Safe to
// call at the start of every test that touches models.
func InitializeTestDb() {
	var err error

	db, err = gorm.Open(sqliteEncrypt.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		log.Panicf("failed to open test database: %v", err)
	}

	err = db.Migrator().DropTable(&EmergencyContact{}, &User{})
	if err != nil {
		log.Panicf("failed to reset test database: %v", err)
	}

	err = db.AutoMigrate(&User{}, &EmergencyContact{})
	if err != nil {
		log.Panicf("failed to migrate test database: %v", err)
	}
}
