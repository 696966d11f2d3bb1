// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/pkg/config"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with foreign keys enforced,
// Unicode-aware LOWER() and all models migrated. The pool is pinned to one
// connection so every query sees the same in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(config.SQLiteDialector("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given username.
func CreateUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// CreatePost inserts a post authored by authorID. A zero createdAt lets GORM
// stamp the current time.
func CreatePost(t *testing.T, db *gorm.DB, authorID uint, title string, createdAt time.Time) models.Post {
	t.Helper()
	post := models.Post{
		Title:     title,
		Content:   fmt.Sprintf("content of %s", title),
		AuthorID:  authorID,
		CreatedAt: createdAt,
	}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}
	return post
}

// Follow inserts a follow edge follower -> following.
func Follow(t *testing.T, db *gorm.DB, followerID, followingID uint) {
	t.Helper()
	if err := db.Create(&models.Follow{FollowerID: followerID, FollowingID: followingID}).Error; err != nil {
		t.Fatalf("Failed to create follow: %v", err)
	}
}
