// Command seed populates a backend with demo users, posts, likes and
// sessions through the repository contracts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/observability"
	"quill/internal/repository/mongodb"
	"quill/internal/repository/postgres"
	"quill/internal/seed"
)

func main() {
	backend := flag.String("backend", "postgres", "Storage backend: postgres or mongo")
	numUsers := flag.Int("users", 10, "Number of users to create")
	postsPerUser := flag.Int("posts", 5, "Number of posts per user")
	likeChance := flag.Float64("like-chance", 0.3, "Probability a user likes a given post")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	observability.SetLevel(observability.ParseLevel(cfg.LogLevel))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	seeder, err := connectSeeder(ctx, cfg, *backend)
	if err != nil {
		log.Fatalf("failed to connect %s backend: %v", *backend, err)
	}

	userIDs, err := seeder.Run(ctx, seed.Options{
		NumUsers:     *numUsers,
		PostsPerUser: *postsPerUser,
		LikeChance:   *likeChance,
	})
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	if len(userIDs) > 0 {
		log.Printf("done, first user id: %s", userIDs[0])
	}
}

func connectSeeder(ctx context.Context, cfg *config.Config, backend string) (*seed.Seeder, error) {
	switch backend {
	case "postgres":
		db, err := database.ConnectPostgres(cfg)
		if err != nil {
			return nil, err
		}
		return seed.NewSeeder(
			postgres.NewUserRepository(db),
			postgres.NewPostRepository(db),
			postgres.NewLikeRepository(db),
			postgres.NewSessionRepository(db),
		), nil
	case "mongo":
		client, db, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return seed.NewSeeder(
			mongodb.NewUserRepository(client, db),
			mongodb.NewPostRepository(client, db),
			mongodb.NewLikeRepository(client, db),
			mongodb.NewSessionRepository(client, db),
		), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want postgres or mongo)", backend)
	}
}
