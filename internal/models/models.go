package models

import "gorm.io/gorm"

// AllModels returns all relational models for migration
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Profile{},
		&Tag{},
		&Post{},
		&Comment{},
		&Like{},
		&Follow{},
		&Notification{},
	}
}

// AutoMigrate runs GORM auto-migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
