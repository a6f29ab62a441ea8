package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// viewerObjectID returns the id bound into the like sub-pipeline. A fresh
// ObjectID serves as the anonymous sentinel: it matches no like document,
// so liked comes back false everywhere.
func viewerObjectID(viewerID string) primitive.ObjectID {
	if viewerID == "" {
		return primitive.NewObjectID()
	}
	oid, err := primitive.ObjectIDFromHex(viewerID)
	if err != nil {
		return primitive.NewObjectID()
	}
	return oid
}

// postPipeline assembles the post read model: the owning user is looked up
// and embedded as author with credentials, session codes, settings and
// email stripped, and liked is derived from whether the viewer has a like
// document for the post.
func postPipeline(viewer primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "user_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "author"},
		}}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "author", Value: bson.D{{Key: "$first", Value: "$author"}}},
		}}},
		bson.D{{Key: "$unset", Value: bson.A{
			"user_id",
			"author.sessions",
			"author.settings",
			"author.email",
			"author.password",
		}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: likesCollection},
			{Key: "let", Value: bson.D{{Key: "post_id", Value: "$_id"}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "$eq", Value: bson.A{"$post_id", "$$post_id"}}},
					bson.D{{Key: "$eq", Value: bson.A{"$user_id", viewer}}},
				}}}}}}},
			}},
			{Key: "as", Value: "like"},
		}}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "liked", Value: bson.D{{Key: "$cond", Value: bson.D{
			{Key: "if", Value: bson.D{{Key: "$eq", Value: bson.A{bson.D{{Key: "$size", Value: "$like"}}, 0}}}},
			{Key: "then", Value: false},
			{Key: "else", Value: true},
		}}}}}}},
		bson.D{{Key: "$unset", Value: bson.A{"like"}}},
	}
}
