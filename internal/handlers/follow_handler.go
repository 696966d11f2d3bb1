package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles the follow graph
type FollowHandler struct {
	follows *services.FollowService
}

func NewFollowHandler(follows *services.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

func (h *FollowHandler) RegisterFollowRoutes(public, protected *echo.Group) {
	public.GET("/users/:id/followers", h.GetFollowers)
	public.GET("/users/:id/following", h.GetFollowing)
	public.GET("/users/:id/follow-stats", h.GetFollowStats)

	protected.GET("/users/:id/follow", h.GetFollowStatus)

	protected.POST("/users/:id/follow", h.FollowUser)
	protected.POST("/users/:id/unfollow", h.UnfollowUser)
}

func compactUsers(users []models.User) []models.UserCompact {
	out := make([]models.UserCompact, len(users))
	for i := range users {
		out[i] = users[i].ToCompact()
	}
	return out
}

// FollowUser rejects following yourself with 400 and a message
func (h *FollowHandler) FollowUser(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	targetID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.follows.Follow(c.Request().Context(), userID, targetID)
	if err != nil {
		return serviceError(err)
	}
	if result == services.FollowSelfRejected {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "You cannot follow yourself"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "following"})
}

func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	targetID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.follows.Unfollow(c.Request().Context(), userID, targetID)
	if err != nil {
		return serviceError(err)
	}
	if result == services.NotFollowing {
		return c.JSON(http.StatusOK, echo.Map{"status": "not following"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "unfollowed"})
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	users, err := h.follows.Followers(c.Request().Context(), userID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, compactUsers(users))
}

func (h *FollowHandler) GetFollowing(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	users, err := h.follows.Following(c.Request().Context(), userID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, compactUsers(users))
}

func (h *FollowHandler) GetFollowStats(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	followers, following, err := h.follows.Counts(c.Request().Context(), userID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"followers": followers, "following": following})
}

// GetFollowStatus tells the caller whether they follow the user
func (h *FollowHandler) GetFollowStatus(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	targetID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	following, err := h.follows.IsFollowing(c.Request().Context(), userID, targetID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"following": following})
}
