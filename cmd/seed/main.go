package main

import (
	"context"
	"flag"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/seed"
	"github.com/anonto42/nano-social/backend/pkg/config"
	"github.com/rs/zerolog/log"
)

func main() {
	users := flag.Int("users", 20, "Number of users to create")
	posts := flag.Int("posts", 5, "Posts per user")
	follows := flag.Int("follows", 5, "Accounts each user follows")
	likes := flag.Int("likes", 10, "Posts each user likes")
	comments := flag.Int("comments", 3, "Comments each user writes")
	seedValue := flag.Int64("seed", 0, "Random seed, 0 for a random run")
	flag.Parse()

	cfg := config.Load()
	config.SetupLogger(cfg)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize databases")
	}
	defer db.CloseDB()

	if err := models.AutoMigrate(db.SQL); err != nil {
		log.Fatal().Err(err).Msg("Auto migration failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	stats, err := seed.NewSeeder(db.SQL, *seedValue).Run(ctx, seed.Options{
		Users:           *users,
		PostsPerUser:    *posts,
		FollowsPerUser:  *follows,
		LikesPerUser:    *likes,
		CommentsPerUser: *comments,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}
	log.Info().Stringer("stats", stats).Str("password", seed.DefaultPassword).Msg("Database seeded")
}
