package handlers

import (
	"net/http"
	"time"

	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const tokenTTL = 72 * time.Hour

// AuthHandler handles account creation and token issuing
type AuthHandler struct {
	accounts  *services.AccountService
	jwtSecret string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accounts *services.AccountService, jwtSecret string) *AuthHandler {
	return &AuthHandler{accounts: accounts, jwtSecret: jwtSecret}
}

// RegisterAuthRoutes registers authentication-related routes. firebaseAuth is
// nil when Firebase is not configured.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, firebaseAuth echo.MiddlewareFunc) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	if firebaseAuth != nil {
		g.POST("/firebase-login", h.FirebaseLogin, firebaseAuth)
	}
}

// LoginRequest defines the request body for username/password login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register creates a user and profile and returns a token for them
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, profile, err := h.accounts.Register(c.Request().Context(), req)
	if err != nil {
		return serviceError(err)
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"token":   token,
		"profile": profile.ToResponse(user),
	})
}

// Login handles local user authentication with username and password
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return serviceError(err)
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// FirebaseLogin exchanges a verified Firebase ID token for a local JWT,
// creating the local account on first login.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	token, ok := middleware.FirebaseTokenFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing Firebase token")
	}
	email, _ := token.Claims["email"].(string)

	user, err := h.accounts.ResolveFirebaseUser(c.Request().Context(), token.UID, email)
	if err != nil {
		return serviceError(err)
	}

	localJWT, err := h.generateJWT(user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"token": localJWT})
}

// generateJWT generates a JWT token for a given user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
}
