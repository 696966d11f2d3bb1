package repositories

import (
	"context"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	ListPosts(ctx context.Context, tagName string) ([]models.Post, error)
	GetPostsByAuthorIDs(ctx context.Context, authorIDs []uint) ([]models.Post, error)
	GetPostsByTagSlug(ctx context.Context, slug string) ([]models.Post, error)
	SearchPosts(ctx context.Context, query string) ([]models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post, fields map[string]interface{}) error
	DeletePost(ctx context.Context, id uint) error
	ClearTags(ctx context.Context, post *models.Post) error
	AppendTags(ctx context.Context, post *models.Post, tags []models.Tag) error
}

// PostgresPostRepository implements PostRepository over GORM
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// likeEscaper makes LIKE metacharacters in user input match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern is compared as LOWER(column) LIKE LOWER(pattern) so both
// sides fold with the same database function.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

// withRelations preloads what the wire representation needs
func (r *PostgresPostRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") })
}

func (r *PostgresPostRepository) newestFirst(tx *gorm.DB) *gorm.DB {
	return tx.Order("posts.created_at DESC").Order("posts.id DESC")
}

func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Omit("Author", "Tags").Create(post).Error
}

// GetPostByID returns gorm.ErrRecordNotFound for unknown ids
func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.withRelations(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts returns every post, newest first. A non-empty tagName keeps only
// posts linked to the tag with exactly that name.
func (r *PostgresPostRepository) ListPosts(ctx context.Context, tagName string) ([]models.Post, error) {
	posts := []models.Post{}
	tx := r.withRelations(ctx)
	if tagName != "" {
		tx = tx.Where("posts.id IN (?)", r.db.Table("post_tags").
			Select("post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name = ?", tagName))
	}
	err := r.newestFirst(tx).Find(&posts).Error
	return posts, err
}

// GetPostsByAuthorIDs returns every post written by one of authorIDs, newest first
func (r *PostgresPostRepository) GetPostsByAuthorIDs(ctx context.Context, authorIDs []uint) ([]models.Post, error) {
	posts := []models.Post{}
	if len(authorIDs) == 0 {
		return posts, nil
	}
	err := r.newestFirst(r.withRelations(ctx).Where("posts.author_id IN ?", authorIDs)).Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) GetPostsByTagSlug(ctx context.Context, slug string) ([]models.Post, error) {
	posts := []models.Post{}
	linked := r.db.Table("post_tags").
		Select("post_tags.post_id").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where("tags.slug = ?", slug)
	err := r.newestFirst(r.withRelations(ctx).Where("posts.id IN (?)", linked)).Find(&posts).Error
	return posts, err
}

// SearchPosts matches query case-insensitively against title, content and the
// names of linked tags. Each post appears once however many tags match.
func (r *PostgresPostRepository) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	if query == "" {
		return r.ListPosts(ctx, "")
	}

	pattern := containsPattern(query)
	taggedMatches := r.db.Table("post_tags").
		Select("post_tags.post_id").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where(`LOWER(tags.name) LIKE LOWER(?) ESCAPE '\'`, pattern)

	posts := []models.Post{}
	err := r.newestFirst(r.withRelations(ctx).Where(
		`LOWER(posts.title) LIKE LOWER(?) ESCAPE '\' OR LOWER(posts.content) LIKE LOWER(?) ESCAPE '\' OR posts.id IN (?)`,
		pattern, pattern, taggedMatches,
	)).Find(&posts).Error
	return posts, err
}

// UpdatePost writes only the given columns; created_at is never touched.
func (r *PostgresPostRepository) UpdatePost(ctx context.Context, post *models.Post, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(post).Omit("created_at").Updates(fields).Error
}

// DeletePost deletes a post; comments, likes and tag links cascade.
func (r *PostgresPostRepository) DeletePost(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearTags unlinks every tag from the post. Tags themselves are kept.
func (r *PostgresPostRepository) ClearTags(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Model(post).Association("Tags").Clear()
}

func (r *PostgresPostRepository) AppendTags(ctx context.Context, post *models.Post, tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(post).Association("Tags").Append(tags)
}
