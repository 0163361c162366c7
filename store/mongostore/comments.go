package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"morsel/models"
	"morsel/store"
)

func (m *Mongo) InsertComment(ctx context.Context, comment models.Comment) error {
	_, err := m.comments.InsertOne(ctx, comment)
	return err
}

func (m *Mongo) GetComment(ctx context.Context, commentID string) (models.Comment, error) {
	var comment models.Comment
	err := m.comments.FindOne(ctx, bson.M{"commentId": commentID}).Decode(&comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Comment{}, store.ErrNotFound
	}
	if err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

func (m *Mongo) ListCommentsByRecipe(ctx context.Context, recipeID string) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.comments.Find(ctx, bson.M{"recipeId": recipeID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

func (m *Mongo) DeleteComment(ctx context.Context, commentID string) error {
	res, err := m.comments.DeleteOne(ctx, bson.M{"commentId": commentID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (m *Mongo) DeleteCommentsByRecipe(ctx context.Context, recipeID string) (int64, error) {
	res, err := m.comments.DeleteMany(ctx, bson.M{"recipeId": recipeID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
