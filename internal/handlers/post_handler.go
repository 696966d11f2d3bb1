package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles post CRUD, search and tag listing
type PostHandler struct {
	posts *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(public, protected *echo.Group) {
	public.GET("/posts", h.GetPosts)
	public.GET("/posts/search", h.SearchPosts)
	public.GET("/posts/:id", h.GetPost)
	public.GET("/tags", h.GetTags)
	public.GET("/tags/:slug/posts", h.GetPostsByTag)

	protected.POST("/posts", h.CreatePost)
	protected.PUT("/posts/:id", h.UpdatePost)
	protected.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost handles creating a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.posts.CreatePost(c.Request().Context(), userID, req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, post.ToResponse())
}

// GetPost handles retrieving a single post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.posts.GetPost(c.Request().Context(), postID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, post.ToResponse())
}

// GetPosts lists posts newest first, optionally only those tagged ?tag=<name>
func (h *PostHandler) GetPosts(c echo.Context) error {
	posts, err := h.posts.ListPosts(c.Request().Context(), c.QueryParam("tag"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.PostsToResponse(posts))
}

// SearchPosts matches ?q= against titles, contents and tag names
func (h *PostHandler) SearchPosts(c echo.Context) error {
	posts, err := h.posts.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.PostsToResponse(posts))
}

func (h *PostHandler) GetPostsByTag(c echo.Context) error {
	posts, err := h.posts.ListByTagSlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.PostsToResponse(posts))
}

func (h *PostHandler) GetTags(c echo.Context) error {
	tags, err := h.posts.ListTags(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

// UpdatePost handles updating an existing post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.posts.UpdatePost(c.Request().Context(), userID, postID, req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, post.ToResponse())
}

// DeletePost handles deleting a post
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.posts.DeletePost(c.Request().Context(), userID, postID); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
