// Package services implements the blogging and social operations on top of
// the repositories. Every multi-step write runs inside one database
// transaction; side effects outside the database happen after commit.
package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrPostNotFound         = errors.New("post not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrForbidden            = errors.New("you do not have permission to perform this action")
	ErrUsernameTaken        = errors.New("a user with that username already exists")
	ErrTagTooLong           = errors.New("tag names must be at most 50 characters")
	ErrInvalidCredentials   = errors.New("invalid username or password")
)

// notFound translates a missing row into the given sentinel and leaves other
// errors alone.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// requireOwner is the capability check run before any owner-only mutation
func requireOwner(actorID, ownerID uint) error {
	if actorID != ownerID {
		return ErrForbidden
	}
	return nil
}
