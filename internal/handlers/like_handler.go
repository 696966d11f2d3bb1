package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likes *services.LikeService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likes *services.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(public, protected *echo.Group) {
	public.GET("/posts/:id/likes", h.GetLikes)

	protected.GET("/posts/:id/like", h.GetLikeStatus)
	protected.POST("/posts/:id/like", h.LikePost)
	protected.POST("/posts/:id/unlike", h.UnlikePost)
}

// LikePost answers 201 for a new like and 200 when it already existed
func (h *LikeHandler) LikePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.likes.Like(c.Request().Context(), userID, postID)
	if err != nil {
		return serviceError(err)
	}
	if result == services.AlreadyLiked {
		return c.JSON(http.StatusOK, echo.Map{"status": "post already liked"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"status": "post liked"})
}

// UnlikePost answers 400 "not liked" when there was nothing to remove
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.likes.Unlike(c.Request().Context(), userID, postID)
	if err != nil {
		return serviceError(err)
	}
	if result == services.NotLiked {
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "not liked"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "post unliked"})
}

func (h *LikeHandler) GetLikes(c echo.Context) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	likes, count, err := h.likes.Likes(c.Request().Context(), postID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count, "likes": likes})
}

// GetLikeStatus tells the caller whether they like the post
func (h *LikeHandler) GetLikeStatus(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	liked, err := h.likes.HasLiked(c.Request().Context(), userID, postID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}
