package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/repository"
)

type sessionRepository struct {
	adapter
	log *observability.RepoLogger
}

// NewSessionRepository returns the document-store SessionRepository
// implementation. Session codes live in an array embedded in the user
// document; $addToSet keeps a code unique within one user but nothing
// enforces global uniqueness across users.
func NewSessionRepository(client *mongo.Client, db *mongo.Database) repository.SessionRepository {
	return &sessionRepository{
		adapter: adapter{client: client, db: db},
		log:     observability.NewRepoLogger("mongodb", "sessions"),
	}
}

func (r *sessionRepository) Create(ctx context.Context, userID, code string) error {
	ctx, span := observability.StartSpan(ctx, "repository.mongodb.sessions.create")
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		oid, err := parseObjectID(userID)
		if err != nil {
			return err
		}
		if code == "" {
			return models.NewValidationError("session code should be non-empty")
		}
		res, err := r.db.Collection(usersCollection).UpdateOne(sc,
			bson.D{{Key: "_id", Value: oid}},
			bson.D{{Key: "$addToSet", Value: bson.D{{Key: "sessions", Value: code}}}},
		)
		if err != nil {
			return wrapError(err)
		}
		if res.MatchedCount == 0 {
			return models.NewNotFoundError("User", userID)
		}
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogOperation(ctx, "create", map[string]interface{}{"user_id": userID})
	return nil
}

func (r *sessionRepository) GetUserID(ctx context.Context, code string) (string, error) {
	ctx, span := observability.StartSpan(ctx, "repository.mongodb.sessions.get_user_id")
	var userID string
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		err := r.db.Collection(usersCollection).FindOne(sc,
			bson.D{{Key: "sessions", Value: code}},
			options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 1}}),
		).Decode(&doc)
		if err == mongo.ErrNoDocuments {
			return models.NewNotFoundMessage("user with this session code doesn't exist")
		}
		if err != nil {
			return wrapError(err)
		}
		userID = doc.ID.Hex()
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, "get_user_id")
		return "", err
	}
	return userID, nil
}
