package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/validators"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// Register creates a local account and its profile together
func (s *AccountService) Register(ctx context.Context, req models.CreateUserRequest) (*models.User, *models.Profile, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Username: req.Username, Email: req.Email, Password: string(hashed)}
	profile := &models.Profile{Bio: req.Bio}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repositories.NewPostgresUserRepository(tx)
		if _, err := users.GetUserByUsername(ctx, req.Username); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := users.CreateUser(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return err
		}
		profile.UserID = user.ID
		return repositories.NewPostgresProfileRepository(tx).CreateProfile(ctx, profile)
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, profile, nil
}

// Authenticate checks a username and password pair
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := repositories.NewPostgresUserRepository(s.db).GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ResolveFirebaseUser returns the local account linked to a Firebase UID,
// creating one (with a profile) on first sight.
func (s *AccountService) ResolveFirebaseUser(ctx context.Context, firebaseUID, email string) (*models.User, error) {
	var resolved *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repositories.NewPostgresUserRepository(tx)
		user, err := users.GetUserByFirebaseUID(ctx, firebaseUID)
		if err == nil {
			resolved = user
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		username, err := s.availableUsername(ctx, users, usernameFromEmail(email, firebaseUID))
		if err != nil {
			return err
		}
		uid := firebaseUID
		resolved = &models.User{Username: username, Email: email, FirebaseUID: &uid}
		if err := users.CreateUser(ctx, resolved); err != nil {
			return err
		}
		return repositories.NewPostgresProfileRepository(tx).CreateProfile(ctx, &models.Profile{UserID: resolved.ID})
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

func usernameFromEmail(email, fallback string) string {
	local, _, _ := strings.Cut(email, "@")
	name := validators.UsernameIllegal.ReplaceAllString(local, "")
	if len(name) < 3 {
		name = "user_" + validators.UsernameIllegal.ReplaceAllString(fallback, "")
	}
	if len(name) > 140 {
		name = name[:140]
	}
	return name
}

func (s *AccountService) availableUsername(ctx context.Context, users repositories.UserRepository, base string) (string, error) {
	candidate := base
	for i := 2; ; i++ {
		_, err := users.GetUserByUsername(ctx, candidate)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}

// GetProfile returns the user with their profile, creating an empty profile
// for accounts that have none yet.
func (s *AccountService) GetProfile(ctx context.Context, userID uint) (*models.User, *models.Profile, error) {
	var (
		user    *models.User
		profile *models.Profile
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = repositories.NewPostgresUserRepository(tx).GetUserByID(ctx, userID)
		if err != nil {
			return notFound(err, ErrUserNotFound)
		}
		profile, err = repositories.NewPostgresProfileRepository(tx).GetOrCreateProfile(ctx, userID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

// UpdateProfile applies the non-nil fields of req to the caller's profile
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, req models.UpdateProfileRequest) (*models.User, *models.Profile, error) {
	var (
		user    *models.User
		profile *models.Profile
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = repositories.NewPostgresUserRepository(tx).GetUserByID(ctx, userID)
		if err != nil {
			return notFound(err, ErrUserNotFound)
		}
		profiles := repositories.NewPostgresProfileRepository(tx)
		profile, err = profiles.GetOrCreateProfile(ctx, userID)
		if err != nil {
			return err
		}
		if req.Bio != nil {
			profile.Bio = *req.Bio
		}
		if req.Image != nil {
			profile.Image = *req.Image
		}
		return profiles.UpdateProfile(ctx, profile)
	})
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

// DeleteAccount removes the user; the database cascades to everything they own
func (s *AccountService) DeleteAccount(ctx context.Context, userID uint) error {
	err := repositories.NewPostgresUserRepository(s.db).DeleteUser(ctx, userID)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	log.Info().Uint("user_id", userID).Msg("account deleted")
	return nil
}
