package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func titles(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Title
	}
	return out
}

func tagPost(t *testing.T, db *gorm.DB, post *models.Post, names ...string) {
	t.Helper()
	ctx := context.Background()
	tags := NewPostgresTagRepository(db)
	linked := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tag, err := tags.FindOrCreateTag(ctx, name)
		require.NoError(t, err)
		linked = append(linked, *tag)
	}
	require.NoError(t, NewPostgresPostRepository(db).AppendTags(ctx, post, linked))
}

func TestPostRepository_GetPostByID(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	post := testutil.CreatePost(t, db, alice.ID, "Hello", time.Time{})
	tagPost(t, db, &post, "python", "go")

	got, err := repo.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Author.Username)
	resp := got.ToResponse()
	assert.Equal(t, []string{"go", "python"}, resp.Tags)

	_, err = repo.GetPostByID(ctx, 9999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestPostRepository_ListPosts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()
	now := time.Now()

	alice := testutil.CreateUser(t, db, "alice")
	older := testutil.CreatePost(t, db, alice.ID, "older", now.Add(-2*time.Hour))
	newer := testutil.CreatePost(t, db, alice.ID, "newer", now.Add(-time.Hour))
	testutil.CreatePost(t, db, alice.ID, "newest", now)
	tagPost(t, db, &older, "go")
	tagPost(t, db, &newer, "go", "rust")

	all, err := repo.ListPosts(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "newer", "older"}, titles(all))

	tagged, err := repo.ListPosts(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, []string{"newer", "older"}, titles(tagged))

	none, err := repo.ListPosts(ctx, "Go")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPostRepository_SearchPostsFoldsUnicode(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()
	now := time.Now()

	alice := testutil.CreateUser(t, db, "alice")
	school := testutil.CreatePost(t, db, alice.ID, "École d'été", now.Add(-time.Hour))
	tagged := testutil.CreatePost(t, db, alice.ID, "Reading list", now)
	tagPost(t, db, &tagged, "Ökonomie")

	for _, q := range []string{"école", "ÉCOLE", "École", "D'ÉTÉ"} {
		posts, err := repo.SearchPosts(ctx, q)
		require.NoError(t, err, q)
		assert.Equal(t, []string{school.Title}, titles(posts), q)
	}

	posts, err := repo.SearchPosts(ctx, "ökonomie")
	require.NoError(t, err)
	assert.Equal(t, []string{tagged.Title}, titles(posts))
}

func TestPostRepository_SearchPosts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()
	now := time.Now()

	alice := testutil.CreateUser(t, db, "alice")
	byTitle := testutil.CreatePost(t, db, alice.ID, "Learning GOLANG", now.Add(-3*time.Hour))
	byTags := testutil.CreatePost(t, db, alice.ID, "Weekend notes", now.Add(-2*time.Hour))
	testutil.CreatePost(t, db, alice.ID, "Unrelated", now.Add(-time.Hour))
	percent := testutil.CreatePost(t, db, alice.ID, "100% done", now)
	tagPost(t, db, &byTags, "golang", "go-tips")

	t.Run("matches title and tags once each", func(t *testing.T) {
		posts, err := repo.SearchPosts(ctx, "golang")
		require.NoError(t, err)
		assert.Equal(t, []string{byTags.Title, byTitle.Title}, titles(posts))
	})

	t.Run("multiple matching tags do not duplicate", func(t *testing.T) {
		posts, err := repo.SearchPosts(ctx, "go")
		require.NoError(t, err)
		assert.Equal(t, []string{byTags.Title, byTitle.Title}, titles(posts))
	})

	t.Run("content is searched", func(t *testing.T) {
		posts, err := repo.SearchPosts(ctx, "CONTENT OF unrelated")
		require.NoError(t, err)
		assert.Equal(t, []string{"Unrelated"}, titles(posts))
	})

	t.Run("wildcards match literally", func(t *testing.T) {
		posts, err := repo.SearchPosts(ctx, "%")
		require.NoError(t, err)
		assert.Equal(t, []string{percent.Title}, titles(posts))

		posts, err = repo.SearchPosts(ctx, "_")
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("empty query returns everything", func(t *testing.T) {
		posts, err := repo.SearchPosts(ctx, "")
		require.NoError(t, err)
		assert.Len(t, posts, 4)
	})

	t.Run("no match", func(t *testing.T) {
		posts, err := repo.SearchPosts(ctx, "haskell")
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})
}

func TestPostRepository_GetPostsByTagSlug(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()
	now := time.Now()

	alice := testutil.CreateUser(t, db, "alice")
	p1 := testutil.CreatePost(t, db, alice.ID, "one", now.Add(-time.Hour))
	p2 := testutil.CreatePost(t, db, alice.ID, "two", now)
	testutil.CreatePost(t, db, alice.ID, "three", now)
	tagPost(t, db, &p1, "Machine Learning")
	tagPost(t, db, &p2, "Machine Learning")

	posts, err := repo.GetPostsByTagSlug(ctx, "machine-learning")
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "one"}, titles(posts))

	posts, err = repo.GetPostsByTagSlug(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostRepository_GetPostsByAuthorIDs(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	testutil.CreatePost(t, db, alice.ID, "a", time.Time{})
	testutil.CreatePost(t, db, bob.ID, "b", time.Time{})

	posts, err := repo.GetPostsByAuthorIDs(ctx, []uint{bob.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, titles(posts))

	posts, err = repo.GetPostsByAuthorIDs(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestPostRepository_UpdateKeepsCreatedAt(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	created := time.Now().Add(-24 * time.Hour).UTC().Truncate(time.Second)
	post := testutil.CreatePost(t, db, alice.ID, "before", created)

	require.NoError(t, repo.UpdatePost(ctx, &post, map[string]interface{}{"title": "after"}))

	got, err := repo.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.UpdatedAt.After(created))
}

func TestPostRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	post := testutil.CreatePost(t, db, alice.ID, "doomed", time.Time{})
	tagPost(t, db, &post, "go")
	require.NoError(t, db.Create(&models.Comment{PostID: post.ID, AuthorID: alice.ID, Content: "a long enough comment"}).Error)
	require.NoError(t, db.Create(&models.Like{PostID: post.ID, UserID: alice.ID}).Error)

	require.NoError(t, repo.DeletePost(ctx, post.ID))

	var comments, likes, links, tags int64
	db.Model(&models.Comment{}).Count(&comments)
	db.Model(&models.Like{}).Count(&likes)
	db.Table("post_tags").Count(&links)
	db.Model(&models.Tag{}).Count(&tags)
	assert.Zero(t, comments)
	assert.Zero(t, likes)
	assert.Zero(t, links)
	assert.Equal(t, int64(1), tags)

	assert.True(t, errors.Is(repo.DeletePost(ctx, post.ID), gorm.ErrRecordNotFound))
}

func TestPostRepository_ClearTags(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	post := testutil.CreatePost(t, db, alice.ID, "tagged", time.Time{})
	tagPost(t, db, &post, "go", "rust")

	require.NoError(t, repo.ClearTags(ctx, &post))

	got, err := repo.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}
