package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"morsel/models"
	"morsel/store"
)

func (m *Mongo) InsertRecipe(ctx context.Context, recipe models.Recipe) error {
	_, err := m.recipes.InsertOne(ctx, recipe)
	return err
}

func (m *Mongo) GetRecipe(ctx context.Context, recipeID string) (models.Recipe, error) {
	var recipe models.Recipe
	err := m.recipes.FindOne(ctx, bson.M{"recipeid": recipeID}).Decode(&recipe)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Recipe{}, store.ErrNotFound
	}
	if err != nil {
		return models.Recipe{}, err
	}
	normalizeRecipe(&recipe)
	return recipe, nil
}

func (m *Mongo) ListRecipesByAuthor(ctx context.Context, authorID string) ([]models.Recipe, error) {
	cursor, err := m.recipes.Find(ctx, bson.M{"authorId": authorID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeRecipes(ctx, cursor)
}

func (m *Mongo) ListPublishedRecipes(ctx context.Context, opts store.RecipeListOpts) ([]models.Recipe, error) {
	query := bson.M{"isPublished": true}
	if opts.Search != "" {
		query["title"] = bson.M{"$regex": opts.Search, "$options": "i"}
	}
	if opts.Category != "" {
		query["category"] = opts.Category
	}

	// Sort and limit pushed to the store; tie-breaks are part of the
	// observable contract.
	sort := bson.D{{Key: "createdAt", Value: -1}}
	if opts.Sort == store.SortMostLiked {
		sort = bson.D{{Key: "likeCount", Value: -1}, {Key: "createdAt", Value: -1}}
	}

	findOpts := options.Find().SetSort(sort)
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cursor, err := m.recipes.Find(ctx, query, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeRecipes(ctx, cursor)
}

func (m *Mongo) ListCategories(ctx context.Context) ([]string, error) {
	raw, err := m.recipes.Distinct(ctx, "category", bson.M{"isPublished": true})
	if err != nil {
		return nil, err
	}
	categories := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			categories = append(categories, s)
		}
	}
	return categories, nil
}

func (m *Mongo) UpdateRecipe(ctx context.Context, recipeID string, fields map[string]any) error {
	update := bson.M{}
	for k, v := range fields {
		update[k] = v
	}
	update["updatedAt"] = time.Now()

	res, err := m.recipes.UpdateOne(ctx, bson.M{"recipeid": recipeID}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (m *Mongo) DeleteRecipe(ctx context.Context, recipeID string) error {
	res, err := m.recipes.DeleteOne(ctx, bson.M{"recipeid": recipeID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// LikeRecipe conditions the whole update on the user not already being in
// likedBy, so the set mutation and the counter bump land together or not at
// all. MatchedCount 0 with an existing recipe means a concurrent toggle won.
func (m *Mongo) LikeRecipe(ctx context.Context, recipeID, userID string) (bool, error) {
	res, err := m.recipes.UpdateOne(ctx,
		bson.M{"recipeid": recipeID, "likedBy": bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{"likedBy": userID},
			"$inc":      bson.M{"likeCount": 1},
			"$set":      bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (m *Mongo) UnlikeRecipe(ctx context.Context, recipeID, userID string) (bool, error) {
	res, err := m.recipes.UpdateOne(ctx,
		bson.M{"recipeid": recipeID, "likedBy": userID},
		bson.M{
			"$pull": bson.M{"likedBy": userID},
			"$inc":  bson.M{"likeCount": -1},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (m *Mongo) IncCommentCount(ctx context.Context, recipeID string, delta int) error {
	filter := bson.M{"recipeid": recipeID}
	if delta < 0 {
		// The floor: decrements only match while the counter is positive.
		filter["commentCount"] = bson.M{"$gt": 0}
	}
	_, err := m.recipes.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"commentCount": delta},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	return err
}

func decodeRecipes(ctx context.Context, cursor *mongo.Cursor) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	for i := range recipes {
		normalizeRecipe(&recipes[i])
	}
	return recipes, nil
}

func normalizeRecipe(r *models.Recipe) {
	if r.LikedBy == nil {
		r.LikedBy = []string{}
	}
	if r.Images == nil {
		r.Images = []string{}
	}
}
