package middleware

import (
	"context"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

const firebaseTokenKey = "firebaseToken"

// TokenVerifier verifies Firebase ID tokens. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthMiddleware verifies the bearer Firebase ID token and stores the
// decoded token in the context.
func FirebaseAuthMiddleware(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, err := bearerToken(c)
			if err != nil {
				return err
			}

			token, err := verifier.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			c.Set(firebaseTokenKey, token)
			return next(c)
		}
	}
}

// FirebaseTokenFromContext returns the token stored by FirebaseAuthMiddleware
func FirebaseTokenFromContext(c echo.Context) (*auth.Token, bool) {
	token, ok := c.Get(firebaseTokenKey).(*auth.Token)
	return token, ok
}
