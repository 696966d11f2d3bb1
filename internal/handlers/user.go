package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler serves profiles and the activity log
type UserHandler struct {
	accounts   *services.AccountService
	activities *services.ActivityService
}

func NewUserHandler(accounts *services.AccountService, activities *services.ActivityService) *UserHandler {
	return &UserHandler{accounts: accounts, activities: activities}
}

func (h *UserHandler) RegisterUserRoutes(public, protected *echo.Group) {
	public.GET("/users/:id", h.GetUser)
	public.GET("/users/:id/activity", h.GetActivity)

	protected.GET("/profile", h.GetProfile)
	protected.PUT("/profile", h.UpdateProfile)
	protected.DELETE("/profile", h.DeleteAccount)
}

// GetUser returns the public profile of a user
func (h *UserHandler) GetUser(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, profile, err := h.accounts.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, profile.ToResponse(user))
}

func (h *UserHandler) GetActivity(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	activities, err := h.activities.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, activities)
}

// GetProfile returns the caller's own profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, profile, err := h.accounts.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, profile.ToResponse(user))
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, profile, err := h.accounts.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, profile.ToResponse(user))
}

// DeleteAccount deletes the caller and everything they own
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.accounts.DeleteAccount(c.Request().Context(), userID); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
