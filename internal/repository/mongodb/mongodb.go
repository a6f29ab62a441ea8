// Package mongodb implements the repository contracts on MongoDB.
//
// Users embed their settings document and session code array directly;
// posts and likes live in their own collections, and the read model is
// assembled with aggregation pipelines. Every operation runs inside one
// session-scoped multi-document transaction: WithTransaction commits on
// success and aborts on any propagated failure.
package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"quill/internal/models"
)

const (
	usersCollection = "users"
	postsCollection = "posts"
	likesCollection = "likes"
)

type adapter struct {
	client *mongo.Client
	db     *mongo.Database
}

// withTransaction runs fn inside a fresh session transaction. The unit of
// work is strictly request-scoped and never reused across calls.
func (a *adapter) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := a.client.StartSession()
	if err != nil {
		return wrapError(err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return wrapError(err)
}

type settingsDoc struct {
	PostsPerPage int32 `bson:"posts_per_page"`
	DisplayEmail bool  `bson:"display_email"`
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FirstName string             `bson:"first_name"`
	LastName  string             `bson:"last_name"`
	Email     *string            `bson:"email,omitempty"`
	Password  string             `bson:"password,omitempty"`
	Settings  *settingsDoc       `bson:"settings,omitempty"`
	Sessions  []string           `bson:"sessions"`
}

func (d *userDoc) toModel() *models.User {
	user := models.NewUser()
	user.ID = d.ID.Hex()
	user.FirstName = d.FirstName
	user.LastName = d.LastName
	user.Email = d.Email
	if d.Settings != nil {
		// Embedded settings have no id of their own.
		user.Settings = models.Settings{
			UserID:       user.ID,
			PostsPerPage: int(d.Settings.PostsPerPage),
			DisplayEmail: d.Settings.DisplayEmail,
		}
	}
	return user
}

// parseObjectID converts an opaque domain id into an ObjectID.
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, models.NewValidationError("malformed id: " + id)
	}
	return oid, nil
}

// wrapError maps driver failures onto the tagged error taxonomy.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var tagged *models.Error
	if errors.As(err, &tagged) {
		return err
	}
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.NewNotFoundMessage("document not found")
	case mongo.IsDuplicateKeyError(err):
		return models.NewIntegrityError(err)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err):
		return models.NewConnectionError(err)
	default:
		return models.NewInternalError(err)
	}
}
