package services

import (
	"context"
	"fmt"

	"github.com/anonto42/nano-social/backend/internal/metrics"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PostService owns post CRUD, tag reconciliation, search and tag listing
type PostService struct {
	db         *gorm.DB
	activities repositories.ActivityRepository
}

func NewPostService(db *gorm.DB, activities repositories.ActivityRepository) *PostService {
	return &PostService{db: db, activities: activities}
}

func (s *PostService) posts() repositories.PostRepository {
	return repositories.NewPostgresPostRepository(s.db)
}

// CreatePost writes the post and links its tags in one transaction
func (s *PostService) CreatePost(ctx context.Context, authorID uint, req models.CreatePostRequest) (*models.Post, error) {
	names := ParseTagNames(req.Tags)
	if err := validateTagNames(names); err != nil {
		return nil, err
	}

	var created *models.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repositories.NewPostgresUserRepository(tx).GetUserByID(ctx, authorID); err != nil {
			return notFound(err, ErrUserNotFound)
		}

		posts := repositories.NewPostgresPostRepository(tx)
		post := &models.Post{Title: req.Title, Content: req.Content, AuthorID: authorID}
		if err := posts.CreatePost(ctx, post); err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		if len(names) > 0 {
			if err := reconcileTags(ctx, tx, post, names, false); err != nil {
				return err
			}
		}

		var err error
		created, err = posts.GetPostByID(ctx, post.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(names) > 0 {
		metrics.TagReconciliations.Inc()
	}

	log.Info().Uint("post_id", created.ID).Uint("author_id", authorID).Msg("post created")
	recordActivity(ctx, s.activities, models.Activity{
		ActorID:    authorID,
		Kind:       models.ActivityPostCreated,
		TargetType: models.TargetTypePost,
		TargetID:   created.ID,
	})
	return created, nil
}

func (s *PostService) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.posts().GetPostByID(ctx, postID)
	if err != nil {
		return nil, notFound(err, ErrPostNotFound)
	}
	return post, nil
}

// ListPosts returns all posts, or only those tagged tagName when it is set
func (s *PostService) ListPosts(ctx context.Context, tagName string) ([]models.Post, error) {
	return s.posts().ListPosts(ctx, tagName)
}

func (s *PostService) Search(ctx context.Context, query string) ([]models.Post, error) {
	return s.posts().SearchPosts(ctx, query)
}

// ListByTagSlug yields an empty list for unknown slugs
func (s *PostService) ListByTagSlug(ctx context.Context, slug string) ([]models.Post, error) {
	return s.posts().GetPostsByTagSlug(ctx, slug)
}

func (s *PostService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return repositories.NewPostgresTagRepository(s.db).ListTags(ctx)
}

// UpdatePost applies the non-nil fields of req. A non-nil Tags replaces the
// whole tag set; the post row and its links change together or not at all.
func (s *PostService) UpdatePost(ctx context.Context, actorID, postID uint, req models.UpdatePostRequest) (*models.Post, error) {
	var names []string
	if req.Tags != nil {
		names = ParseTagNames(*req.Tags)
		if err := validateTagNames(names); err != nil {
			return nil, err
		}
	}

	var updated *models.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := repositories.NewPostgresPostRepository(tx)
		post, err := posts.GetPostByID(ctx, postID)
		if err != nil {
			return notFound(err, ErrPostNotFound)
		}
		if err := requireOwner(actorID, post.AuthorID); err != nil {
			return err
		}

		fields := map[string]interface{}{}
		if req.Title != nil {
			fields["title"] = *req.Title
		}
		if req.Content != nil {
			fields["content"] = *req.Content
		}
		if err := posts.UpdatePost(ctx, post, fields); err != nil {
			return fmt.Errorf("update post: %w", err)
		}
		if req.Tags != nil {
			if err := reconcileTags(ctx, tx, post, names, true); err != nil {
				return err
			}
		}

		updated, err = posts.GetPostByID(ctx, postID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if req.Tags != nil {
		metrics.TagReconciliations.Inc()
	}
	return updated, nil
}

// DeletePost removes the post with its comments, likes and tag links
func (s *PostService) DeletePost(ctx context.Context, actorID, postID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := repositories.NewPostgresPostRepository(tx)
		post, err := posts.GetPostByID(ctx, postID)
		if err != nil {
			return notFound(err, ErrPostNotFound)
		}
		if err := requireOwner(actorID, post.AuthorID); err != nil {
			return err
		}
		return notFound(posts.DeletePost(ctx, postID), ErrPostNotFound)
	})
}
