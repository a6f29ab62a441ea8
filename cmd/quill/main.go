// Command quill lists the post read model from either storage backend.
// It is a thin inspection tool: pick a backend, optionally a viewer, and
// the projected posts are printed as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/repository"
	"quill/internal/repository/mongodb"
	"quill/internal/repository/postgres"
)

func main() {
	backend := flag.String("backend", "postgres", "Storage backend: postgres or mongo")
	viewer := flag.String("viewer", "", "Viewer user id (empty for anonymous)")
	likedOnly := flag.Bool("liked", false, "List only posts the viewer liked")
	tracing := flag.Bool("trace", false, "Emit spans to stdout")
	flag.Parse()

	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	observability.SetLevel(observability.ParseLevel(cfg.LogLevel))

	shutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  "quill",
		Environment:  cfg.Env,
		Enabled:      *tracing,
		Exporter:     "stdout",
		SamplerRatio: 1,
	})
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer func() { _ = shutdown(context.Background()) }()

	posts, err := connectPosts(ctx, cfg, *backend)
	if err != nil {
		log.Fatalf("failed to connect %s backend: %v", *backend, err)
	}

	var list []models.Post
	if *likedOnly {
		list, err = posts.LikedList(ctx, *viewer)
	} else {
		list, err = posts.List(ctx, *viewer)
	}
	if err != nil {
		log.Fatalf("failed to list posts: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(list); err != nil {
		log.Fatalf("failed to encode posts: %v", err)
	}
}

func connectPosts(ctx context.Context, cfg *config.Config, backend string) (repository.PostRepository, error) {
	switch backend {
	case "postgres":
		db, err := database.ConnectPostgres(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.NewPostRepository(db), nil
	case "mongo":
		client, db, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return mongodb.NewPostRepository(client, db), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want postgres or mongo)", backend)
	}
}
