package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
)

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	FindOrCreateTag(ctx context.Context, name string) (*models.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
}

// PostgresTagRepository implements TagRepository over GORM
type PostgresTagRepository struct {
	db *gorm.DB
}

func NewPostgresTagRepository(db *gorm.DB) *PostgresTagRepository {
	return &PostgresTagRepository{db: db}
}

// FindOrCreateTag returns the tag with exactly this name, creating it (and its
// slug) when absent.
func (r *PostgresTagRepository) FindOrCreateTag(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).
		Where(models.Tag{Name: name}).
		FirstOrCreate(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *PostgresTagRepository) GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *PostgresTagRepository) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := r.db.WithContext(ctx).Order("name").Find(&tags).Error
	return tags, err
}
