// Package seed fills a database with fake users, posts and interactions by
// driving the same services the HTTP API uses.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/notifier"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/anonto42/nano-social/backend/validators"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// DefaultPassword is shared by every seeded account.
const DefaultPassword = "password123"

var tagPool = []string{"go", "databases", "Machine Learning", "devops", "rust", "web", "open source", "career"}

// Options controls how much data a run creates.
type Options struct {
	Users           int
	PostsPerUser    int
	FollowsPerUser  int
	LikesPerUser    int
	CommentsPerUser int
}

// Stats counts what a run created.
type Stats struct {
	Users    int
	Posts    int
	Follows  int
	Likes    int
	Comments int
}

func (s Stats) String() string {
	return fmt.Sprintf("users=%d posts=%d follows=%d likes=%d comments=%d",
		s.Users, s.Posts, s.Follows, s.Likes, s.Comments)
}

type Seeder struct {
	faker    *gofakeit.Faker
	accounts *services.AccountService
	posts    *services.PostService
	comments *services.CommentService
	follows  *services.FollowService
	likes    *services.LikeService
}

// NewSeeder builds a seeder whose fake data is reproducible for a fixed seed.
// Zero picks a random seed.
func NewSeeder(db *gorm.DB, seed int64) *Seeder {
	activities := repositories.NewNopActivityRepository()
	return &Seeder{
		faker:    gofakeit.New(seed),
		accounts: services.NewAccountService(db),
		posts:    services.NewPostService(db, activities),
		comments: services.NewCommentService(db),
		follows:  services.NewFollowService(db, activities),
		likes:    services.NewLikeService(db, notifier.NewRedisPublisher(nil), activities),
	}
}

// Run creates users first, then posts, then the follow graph, likes and
// comments between them.
func (s *Seeder) Run(ctx context.Context, opts Options) (Stats, error) {
	var stats Stats

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user, _, err := s.accounts.Register(ctx, models.CreateUserRequest{
			Username: fmt.Sprintf("%s%d", sanitizeUsername(s.faker.Username()), i+1),
			Email:    s.faker.Email(),
			Password: DefaultPassword,
			Bio:      s.faker.Sentence(10),
		})
		if err != nil {
			return stats, fmt.Errorf("register user %d: %w", i+1, err)
		}
		users = append(users, user)
		stats.Users++
	}
	log.Info().Int("users", stats.Users).Msg("seeded users")

	var posts []*models.Post
	for _, user := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			post, err := s.posts.CreatePost(ctx, user.ID, models.CreatePostRequest{
				Title:   strings.TrimSuffix(s.faker.Sentence(5), "."),
				Content: s.faker.Paragraph(1, 3, 8, "\n"),
				Tags:    s.randomTags(),
			})
			if err != nil {
				return stats, fmt.Errorf("create post for %s: %w", user.Username, err)
			}
			posts = append(posts, post)
			stats.Posts++
		}
	}
	log.Info().Int("posts", stats.Posts).Msg("seeded posts")

	for _, user := range users {
		others := lo.Filter(users, func(u *models.User, _ int) bool { return u.ID != user.ID })
		for _, target := range lo.Samples(others, opts.FollowsPerUser) {
			result, err := s.follows.Follow(ctx, user.ID, target.ID)
			if err != nil {
				return stats, fmt.Errorf("follow: %w", err)
			}
			if result == services.Followed {
				stats.Follows++
			}
		}

		for _, post := range lo.Samples(posts, opts.LikesPerUser) {
			result, err := s.likes.Like(ctx, user.ID, post.ID)
			if err != nil {
				return stats, fmt.Errorf("like: %w", err)
			}
			if result == services.LikeCreated {
				stats.Likes++
			}
		}

		for _, post := range lo.Samples(posts, opts.CommentsPerUser) {
			if _, err := s.comments.CreateComment(ctx, user.ID, post.ID, models.CommentRequest{
				Content: s.faker.Sentence(8),
			}); err != nil {
				return stats, fmt.Errorf("comment: %w", err)
			}
			stats.Comments++
		}
	}

	log.Info().Stringer("stats", stats).Msg("seeding finished")
	return stats, nil
}

func (s *Seeder) randomTags() string {
	n := s.faker.Number(0, 3)
	picked := make([]string, 0, n)
	for i := 0; i < n; i++ {
		picked = append(picked, s.faker.RandomString(tagPool))
	}
	return strings.Join(picked, ", ")
}

func sanitizeUsername(raw string) string {
	out := validators.UsernameIllegal.ReplaceAllString(raw, "")
	if len(out) < 3 {
		out = "user" + out
	}
	if len(out) > 100 {
		out = out[:100]
	}
	return out
}
