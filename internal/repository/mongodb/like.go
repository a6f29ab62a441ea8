package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"quill/internal/observability"
	"quill/internal/repository"
)

type likeRepository struct {
	adapter
	log *observability.RepoLogger
}

// NewLikeRepository returns the document-store LikeRepository implementation.
func NewLikeRepository(client *mongo.Client, db *mongo.Database) repository.LikeRepository {
	return &likeRepository{
		adapter: adapter{client: client, db: db},
		log:     observability.NewRepoLogger("mongodb", "likes"),
	}
}

func (r *likeRepository) Create(ctx context.Context, userID, postID string) error {
	ctx, span := observability.StartSpan(ctx, "repository.mongodb.likes.create")
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		uid, pid, err := parsePair(userID, postID)
		if err != nil {
			return err
		}
		_, err = r.db.Collection(likesCollection).InsertOne(sc, bson.D{
			{Key: "user_id", Value: uid},
			{Key: "post_id", Value: pid},
		})
		return wrapError(err)
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogOperation(ctx, "create", map[string]interface{}{"user_id": userID, "post_id": postID})
	return nil
}

func (r *likeRepository) Delete(ctx context.Context, userID, postID string) error {
	ctx, span := observability.StartSpan(ctx, "repository.mongodb.likes.delete")
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		uid, pid, err := parsePair(userID, postID)
		if err != nil {
			return err
		}
		_, err = r.db.Collection(likesCollection).DeleteOne(sc, bson.D{
			{Key: "user_id", Value: uid},
			{Key: "post_id", Value: pid},
		})
		return wrapError(err)
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, "delete")
		return err
	}
	r.log.LogOperation(ctx, "delete", map[string]interface{}{"user_id": userID, "post_id": postID})
	return nil
}

func parsePair(userID, postID string) (primitive.ObjectID, primitive.ObjectID, error) {
	uid, err := parseObjectID(userID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	pid, err := parseObjectID(postID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	return uid, pid, nil
}
