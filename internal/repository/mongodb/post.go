package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/repository"
)

// authorDoc is the embedded author shape after the projection pipeline.
// Email is absent here on purpose: this backend always strips it from
// joined author views, regardless of the display_email setting.
type authorDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	FirstName string             `bson:"first_name"`
	LastName  string             `bson:"last_name"`
}

type postDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Text        *string            `bson:"text"`
	Description *string            `bson:"description"`
	Author      *authorDoc         `bson:"author,omitempty"`
	Liked       bool               `bson:"liked"`
}

func (d *postDoc) toModel() models.Post {
	post := models.Post{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Text:        d.Text,
		Description: d.Description,
		Liked:       d.Liked,
	}
	if d.Author != nil {
		author := models.NewUser()
		author.ID = d.Author.ID.Hex()
		author.FirstName = d.Author.FirstName
		author.LastName = d.Author.LastName
		post.Author = author
	}
	return post
}

// insertPostDoc is the write shape; user_id is resolved to an author by the
// read pipeline.
type insertPostDoc struct {
	UserID      *primitive.ObjectID `bson:"user_id"`
	Title       string              `bson:"title"`
	Text        *string             `bson:"text"`
	Description *string             `bson:"description"`
}

type postRepository struct {
	adapter
	log *observability.RepoLogger
}

// NewPostRepository returns the document-store PostRepository implementation.
func NewPostRepository(client *mongo.Client, db *mongo.Database) repository.PostRepository {
	return &postRepository{
		adapter: adapter{client: client, db: db},
		log:     observability.NewRepoLogger("mongodb", "posts"),
	}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (string, error) {
	ctx, span := observability.StartSpan(ctx, "repository.mongodb.posts.create")
	var id string
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		doc := insertPostDoc{
			Title:       post.Title,
			Text:        post.Text,
			Description: post.Description,
		}
		if post.Author != nil {
			authorID, err := parseObjectID(post.Author.ID)
			if err != nil {
				return err
			}
			doc.UserID = &authorID
		}
		res, err := r.db.Collection(postsCollection).InsertOne(sc, doc)
		if err != nil {
			return wrapError(err)
		}
		id = res.InsertedID.(primitive.ObjectID).Hex()
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return "", err
	}
	r.log.LogOperation(ctx, "create", map[string]interface{}{"post_id": id})
	return id, nil
}

func (r *postRepository) Get(ctx context.Context, id, viewerID string) (*models.Post, error) {
	ctx, span := observability.StartSpan(ctx, "repository.mongodb.posts.get")
	var post *models.Post
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		oid, err := parseObjectID(id)
		if err != nil {
			return err
		}
		pipeline := mongo.Pipeline{
			bson.D{{Key: "$match", Value: bson.D{{Key: "_id", Value: oid}}}},
		}
		pipeline = append(pipeline, postPipeline(viewerObjectID(viewerID))...)

		docs, err := r.aggregate(sc, pipeline)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return models.NewNotFoundError("Post", id)
		}
		p := docs[0].toModel()
		post = &p
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, "get")
		return nil, err
	}
	return post, nil
}

func (r *postRepository) List(ctx context.Context, viewerID string) ([]models.Post, error) {
	return r.list(ctx, "list", postPipeline(viewerObjectID(viewerID)))
}

func (r *postRepository) LikedList(ctx context.Context, viewerID string) ([]models.Post, error) {
	viewer, err := parseObjectID(viewerID)
	if err != nil {
		return nil, err
	}
	pipeline := append(postPipeline(viewer),
		bson.D{{Key: "$match", Value: bson.D{{Key: "liked", Value: true}}}},
	)
	return r.list(ctx, "liked_list", pipeline)
}

func (r *postRepository) list(ctx context.Context, operation string, pipeline mongo.Pipeline) ([]models.Post, error) {
	ctx, span := observability.StartSpan(ctx, "repository.mongodb.posts."+operation)
	var posts []models.Post
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		docs, err := r.aggregate(sc, pipeline)
		if err != nil {
			return err
		}
		posts = make([]models.Post, 0, len(docs))
		for i := range docs {
			posts = append(posts, docs[i].toModel())
		}
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, operation)
		return nil, err
	}
	r.log.LogOperation(ctx, operation, map[string]interface{}{"count": len(posts)})
	return posts, nil
}

func (r *postRepository) aggregate(sc mongo.SessionContext, pipeline mongo.Pipeline) ([]postDoc, error) {
	cursor, err := r.db.Collection(postsCollection).Aggregate(sc, pipeline)
	if err != nil {
		return nil, wrapError(err)
	}
	var docs []postDoc
	if err := cursor.All(sc, &docs); err != nil {
		return nil, wrapError(err)
	}
	return docs, nil
}
