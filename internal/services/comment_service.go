package services

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"gorm.io/gorm"
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

func (s *CommentService) CreateComment(ctx context.Context, actorID, postID uint, req models.CommentRequest) (*models.Comment, error) {
	var created *models.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repositories.NewPostgresPostRepository(tx).GetPostByID(ctx, postID); err != nil {
			return notFound(err, ErrPostNotFound)
		}
		comments := repositories.NewPostgresCommentRepository(tx)
		comment := &models.Comment{PostID: postID, AuthorID: actorID, Content: req.Content}
		if err := comments.CreateComment(ctx, comment); err != nil {
			return err
		}
		var err error
		created, err = comments.GetCommentByID(ctx, comment.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListComments returns the comments of a post, newest first
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	if _, err := repositories.NewPostgresPostRepository(s.db).GetPostByID(ctx, postID); err != nil {
		return nil, notFound(err, ErrPostNotFound)
	}
	return repositories.NewPostgresCommentRepository(s.db).GetCommentsByPostID(ctx, postID)
}

func (s *CommentService) UpdateComment(ctx context.Context, actorID, commentID uint, req models.CommentRequest) (*models.Comment, error) {
	var updated *models.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comments := repositories.NewPostgresCommentRepository(tx)
		comment, err := comments.GetCommentByID(ctx, commentID)
		if err != nil {
			return notFound(err, ErrCommentNotFound)
		}
		if err := requireOwner(actorID, comment.AuthorID); err != nil {
			return err
		}
		if err := comments.UpdateCommentContent(ctx, comment, req.Content); err != nil {
			return err
		}
		updated, err = comments.GetCommentByID(ctx, commentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, actorID, commentID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comments := repositories.NewPostgresCommentRepository(tx)
		comment, err := comments.GetCommentByID(ctx, commentID)
		if err != nil {
			return notFound(err, ErrCommentNotFound)
		}
		if err := requireOwner(actorID, comment.AuthorID); err != nil {
			return err
		}
		return notFound(comments.DeleteComment(ctx, commentID), ErrCommentNotFound)
	})
}
