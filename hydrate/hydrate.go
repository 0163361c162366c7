// Package hydrate is the single author-join step shared by every read path.
// Recipes and comments store only authorId; the author projection is
// attached here at read time and never persisted.
package hydrate

import (
	"context"

	"morsel/models"
	"morsel/store"
)

// FallbackAuthorName is shown when the author account no longer resolves.
const FallbackAuthorName = "Unknown cook"

// Author resolves one author projection. A missing account yields the
// fallback projection, never an error.
func Author(ctx context.Context, accounts store.AccountStore, authorID string) models.Author {
	acct, err := accounts.GetAccount(ctx, authorID)
	if err != nil {
		return models.Author{UserID: authorID, Name: FallbackAuthorName}
	}
	name := acct.Username
	if name == "" {
		name = acct.Email
	}
	if name == "" {
		name = FallbackAuthorName
	}
	return models.Author{UserID: acct.UserID, Name: name, Avatar: acct.ImageURL}
}

// Recipes attaches author projections to a batch, deduplicating lookups per
// author within the batch.
func Recipes(ctx context.Context, accounts store.AccountStore, recipes []models.Recipe) []models.RecipeWithAuthor {
	cache := map[string]models.Author{}
	out := make([]models.RecipeWithAuthor, 0, len(recipes))
	for _, r := range recipes {
		author, ok := cache[r.AuthorID]
		if !ok {
			author = Author(ctx, accounts, r.AuthorID)
			cache[r.AuthorID] = author
		}
		out = append(out, models.RecipeWithAuthor{Recipe: r, Author: author})
	}
	return out
}

// Comments attaches author projections to a comment batch.
func Comments(ctx context.Context, accounts store.AccountStore, comments []models.Comment) []models.CommentWithAuthor {
	cache := map[string]models.Author{}
	out := make([]models.CommentWithAuthor, 0, len(comments))
	for _, c := range comments {
		author, ok := cache[c.AuthorID]
		if !ok {
			author = Author(ctx, accounts, c.AuthorID)
			cache[c.AuthorID] = author
		}
		out = append(out, models.CommentWithAuthor{Comment: c, Author: author})
	}
	return out
}
