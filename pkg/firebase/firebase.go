package firebase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// App bundles the Firebase app with the auth client used to verify ID tokens
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
}

// InitFirebase builds the app from a service account file. The auth client
// satisfies middleware.TokenVerifier.
func InitFirebase(ctx context.Context, credentialsPath string) (*App, error) {
	if err := checkCredentials(credentialsPath); err != nil {
		return nil, err
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth client: %w", err)
	}

	log.Info().Str("credentials", credentialsPath).Msg("Firebase auth client ready")
	return &App{FirebaseApp: app, AuthClient: client}, nil
}

func checkCredentials(path string) error {
	if path == "" {
		return errors.New("firebase credentials path not provided")
	}
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("firebase credentials file not found at %s", path)
	case err != nil:
		return fmt.Errorf("stat firebase credentials: %w", err)
	case info.IsDir():
		return fmt.Errorf("firebase credentials path %s is a directory", path)
	}
	return nil
}
