// Package seed creates demo data through the repository contracts, so the
// same seeder works against either backend. Intended for development and
// testing only.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"quill/internal/models"
	"quill/internal/repository"
)

// Options controls how much data the seeder creates.
type Options struct {
	NumUsers     int
	PostsPerUser int
	// LikeChance is the probability, per user and post, that the user
	// likes the post.
	LikeChance float64
}

// DefaultOptions returns a small but interconnected data set.
func DefaultOptions() Options {
	return Options{NumUsers: 10, PostsPerUser: 5, LikeChance: 0.3}
}

// Factory builds unsaved domain entities with realistic fake content.
type Factory struct {
	rng *rand.Rand
}

// NewFactory creates a Factory. Pass a fixed seed for reproducible data.
func NewFactory(seed int64) *Factory {
	gofakeit.Seed(seed)
	return &Factory{rng: rand.New(rand.NewSource(seed))}
}

// User builds a user with a lowercase unique email and the shared demo
// password.
func (f *Factory) User() *models.User {
	user := models.NewUser()
	user.FirstName = gofakeit.FirstName()
	user.LastName = gofakeit.LastName()

	email := strings.ToLower(fmt.Sprintf("%s.%s.%s@%s",
		user.FirstName, user.LastName, gofakeit.LetterN(4), gofakeit.DomainName()))
	password := "password"
	user.Email = &email
	user.Password = &password
	user.Settings.PostsPerPage = 10 + f.rng.Intn(3)*10
	user.Settings.DisplayEmail = f.rng.Intn(4) == 0
	return user
}

// Post builds a post owned by author. A small share of posts omit the
// optional text and description.
func (f *Factory) Post(author *models.User) *models.Post {
	post := &models.Post{
		Title:  gofakeit.Sentence(4),
		Author: author,
	}
	if f.rng.Intn(10) > 0 {
		text := gofakeit.Paragraph(1, 3, 12, "\n")
		post.Text = &text
	}
	if f.rng.Intn(10) > 2 {
		description := gofakeit.Sentence(8)
		post.Description = &description
	}
	return post
}

// SessionCode returns a fresh opaque session code.
func (f *Factory) SessionCode() string {
	return uuid.NewString()
}

// Seeder persists factory output through the repository contracts.
type Seeder struct {
	factory  *Factory
	users    repository.UserRepository
	posts    repository.PostRepository
	likes    repository.LikeRepository
	sessions repository.SessionRepository
}

// NewSeeder creates a Seeder over the given repositories.
func NewSeeder(users repository.UserRepository, posts repository.PostRepository,
	likes repository.LikeRepository, sessions repository.SessionRepository) *Seeder {
	return &Seeder{
		factory:  NewFactory(time.Now().UnixNano()),
		users:    users,
		posts:    posts,
		likes:    likes,
		sessions: sessions,
	}
}

// Run creates users, their posts, a random like mesh and one session per
// user. It returns the ids of the created users.
func (s *Seeder) Run(ctx context.Context, opts Options) ([]string, error) {
	userIDs := make([]string, 0, opts.NumUsers)
	postIDs := make([]string, 0, opts.NumUsers*opts.PostsPerUser)

	for i := 0; i < opts.NumUsers; i++ {
		user := s.factory.User()
		id, err := s.users.Create(ctx, user)
		if err != nil {
			return nil, fmt.Errorf("seed user: %w", err)
		}
		userIDs = append(userIDs, id)

		for j := 0; j < opts.PostsPerUser; j++ {
			postID, err := s.posts.Create(ctx, s.factory.Post(user))
			if err != nil {
				return nil, fmt.Errorf("seed post: %w", err)
			}
			postIDs = append(postIDs, postID)
		}

		if err := s.sessions.Create(ctx, id, s.factory.SessionCode()); err != nil {
			return nil, fmt.Errorf("seed session: %w", err)
		}
	}

	liked := 0
	for _, userID := range userIDs {
		for _, postID := range postIDs {
			if s.factory.rng.Float64() < opts.LikeChance {
				if err := s.likes.Create(ctx, userID, postID); err != nil {
					return nil, fmt.Errorf("seed like: %w", err)
				}
				liked++
			}
		}
	}

	log.Printf("seeded %d users, %d posts, %d likes", len(userIDs), len(postIDs), liked)
	return userIDs, nil
}
