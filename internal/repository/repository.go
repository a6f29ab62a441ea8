// Package repository defines the storage contracts shared by every backend.
// Implementations live in subpackages (postgres, mongodb); callers select
// one at composition time and program against these interfaces only.
//
// Every operation executes inside a single atomic unit of work opened fresh
// per call and committed (or aborted) before returning. Partial failure
// inside the unit leaves no visible state change. Result order of list
// operations is the engine's natural scan order; callers must not assume
// stability.
package repository

import (
	"context"

	"quill/internal/models"
)

// UserRepository persists users and their settings.
type UserRepository interface {
	// Create stores a new user together with its settings record in one
	// unit of work, backfilling user.ID, user.Settings.ID and
	// user.Settings.UserID. It fails with a validation error when the
	// password is absent or empty.
	Create(ctx context.Context, user *models.User) (string, error)

	// GetID returns the id of the user matching the email and plaintext
	// password. Absence of a match is a not-found error; unknown email and
	// wrong password are indistinguishable.
	GetID(ctx context.Context, email, password string) (string, error)

	// GetSettings loads a user together with its settings. The user's own
	// email is redacted unless their DisplayEmail setting is true.
	GetSettings(ctx context.Context, id string) (*models.User, error)

	// Edit updates the settings record identified by settings.UserID.
	Edit(ctx context.Context, settings *models.Settings) error
}

// PostRepository persists posts and projects them relative to a viewer.
// viewerID selects whose likes drive the Liked flag; the empty string means
// an anonymous viewer, for whom Liked is always false.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (string, error)

	// Get loads one post with its redacted embedded author and the
	// viewer-relative Liked flag.
	Get(ctx context.Context, id, viewerID string) (*models.Post, error)

	// List returns all posts; posts the viewer has not liked still appear
	// with Liked false.
	List(ctx context.Context, viewerID string) ([]models.Post, error)

	// LikedList returns only the posts the viewer has liked; Liked is true
	// on every result.
	LikedList(ctx context.Context, viewerID string) ([]models.Post, error)
}

// LikeRepository records existence-only like relations between users and
// posts. The write path does not guarantee idempotency.
type LikeRepository interface {
	Create(ctx context.Context, userID, postID string) error
	Delete(ctx context.Context, userID, postID string) error
}

// SessionRepository maps opaque session codes to users. One user may hold
// multiple codes; a code must map to exactly one user.
type SessionRepository interface {
	Create(ctx context.Context, userID, code string) error
	GetUserID(ctx context.Context, code string) (string, error)
}
