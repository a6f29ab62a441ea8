package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quill/internal/auth"
	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/repository"
)

type userRepository struct {
	adapter
	log *observability.RepoLogger
}

// NewUserRepository returns the document-store UserRepository implementation.
func NewUserRepository(client *mongo.Client, db *mongo.Database) repository.UserRepository {
	return &userRepository{
		adapter: adapter{client: client, db: db},
		log:     observability.NewRepoLogger("mongodb", "users"),
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (string, error) {
	ctx, span := observability.StartSpan(ctx, "repository.mongodb.users.create")
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if user.Password == nil || *user.Password == "" {
			return models.NewValidationError("password should be non-empty")
		}

		doc := userDoc{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
			Password:  auth.Digest(*user.Password),
			Settings: &settingsDoc{
				PostsPerPage: int32(user.Settings.PostsPerPage),
				DisplayEmail: user.Settings.DisplayEmail,
			},
			Sessions: []string{},
		}
		res, err := r.db.Collection(usersCollection).InsertOne(sc, doc)
		if err != nil {
			return wrapError(err)
		}
		user.ID = res.InsertedID.(primitive.ObjectID).Hex()
		user.Settings.UserID = user.ID
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return "", err
	}
	r.log.LogOperation(ctx, "create", map[string]interface{}{"user_id": user.ID})
	return user.ID, nil
}

func (r *userRepository) GetID(ctx context.Context, email, password string) (string, error) {
	ctx, span := observability.StartSpan(ctx, "repository.mongodb.users.get_id")
	var id string
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		err := r.db.Collection(usersCollection).FindOne(sc,
			bson.D{
				{Key: "email", Value: email},
				{Key: "password", Value: auth.Digest(password)},
			},
			options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 1}}),
		).Decode(&doc)
		if err == mongo.ErrNoDocuments {
			return models.NewNotFoundMessage("user with this email and password doesn't exist")
		}
		if err != nil {
			return wrapError(err)
		}
		id = doc.ID.Hex()
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, "get_id")
		return "", err
	}
	return id, nil
}

func (r *userRepository) GetSettings(ctx context.Context, id string) (*models.User, error) {
	ctx, span := observability.StartSpan(ctx, "repository.mongodb.users.get_settings")
	var user *models.User
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		oid, err := parseObjectID(id)
		if err != nil {
			return err
		}

		// Project the email away unless the user opted in; $$REMOVE drops
		// the field entirely so the decoded pointer stays nil.
		projection := bson.D{
			{Key: "first_name", Value: 1},
			{Key: "last_name", Value: 1},
			{Key: "email", Value: bson.D{{Key: "$cond", Value: bson.D{
				{Key: "if", Value: "$settings.display_email"},
				{Key: "then", Value: "$email"},
				{Key: "else", Value: "$$REMOVE"},
			}}}},
			{Key: "settings", Value: 1},
		}

		var doc userDoc
		findErr := r.db.Collection(usersCollection).FindOne(sc,
			bson.D{{Key: "_id", Value: oid}},
			options.FindOne().SetProjection(projection),
		).Decode(&doc)
		if findErr == mongo.ErrNoDocuments {
			return models.NewNotFoundError("User", id)
		}
		if findErr != nil {
			return wrapError(findErr)
		}
		user = doc.toModel()
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, "get_settings")
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Edit(ctx context.Context, settings *models.Settings) error {
	ctx, span := observability.StartSpan(ctx, "repository.mongodb.users.edit")
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		oid, err := parseObjectID(settings.UserID)
		if err != nil {
			return err
		}
		res, err := r.db.Collection(usersCollection).UpdateOne(sc,
			bson.D{{Key: "_id", Value: oid}},
			bson.D{{Key: "$set", Value: bson.D{{Key: "settings", Value: settingsDoc{
				PostsPerPage: int32(settings.PostsPerPage),
				DisplayEmail: settings.DisplayEmail,
			}}}}},
		)
		if err != nil {
			return wrapError(err)
		}
		if res.MatchedCount == 0 {
			return models.NewNotFoundError("User", settings.UserID)
		}
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, "edit")
		return err
	}
	r.log.LogOperation(ctx, "edit", map[string]interface{}{"user_id": settings.UserID})
	return nil
}
