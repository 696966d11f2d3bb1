package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(public, protected *echo.Group) {
	public.GET("/posts/:id/comments", h.GetCommentsByPostID)

	protected.POST("/posts/:id/comments", h.CreateComment)
	protected.PUT("/comments/:id", h.UpdateComment)
	protected.DELETE("/comments/:id", h.DeleteComment)
}

func commentsToResponse(comments []models.Comment) []models.CommentResponse {
	out := make([]models.CommentResponse, len(comments))
	for i := range comments {
		out[i] = comments[i].ToResponse()
	}
	return out
}

// CreateComment handles creating a new comment on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.CommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.comments.CreateComment(c.Request().Context(), userID, postID, req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, comment.ToResponse())
}

// GetCommentsByPostID handles retrieving all comments for a specific post
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	comments, err := h.comments.ListComments(c.Request().Context(), postID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, commentsToResponse(comments))
}

// UpdateComment handles updating an existing comment
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	commentID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.CommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.comments.UpdateComment(c.Request().Context(), userID, commentID, req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, comment.ToResponse())
}

// DeleteComment handles deleting a comment
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	commentID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.comments.DeleteComment(c.Request().Context(), userID, commentID); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
