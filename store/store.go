package store

import (
	"context"
	"errors"

	"morsel/models"
)

var ErrNotFound = errors.New("not found")

const (
	SortNewest    = "newest"
	SortMostLiked = "mostLiked"
)

// RecipeListOpts narrows the published-recipe listing. Sorting and limiting
// happen store-side; callers never fetch-all-then-sort.
type RecipeListOpts struct {
	Sort     string
	Limit    int
	Search   string
	Category string
}

type AccountStore interface {
	GetAccount(ctx context.Context, userID string) (models.Account, error)
	InsertAccount(ctx context.Context, acct models.Account) error
	// UpdateAccount applies a partial field update to the profile document.
	UpdateAccount(ctx context.Context, userID string, fields map[string]any) error
	// AddFavorite and RemoveFavorite are atomic set membership updates, not
	// read-modify-write over the whole favorites array.
	AddFavorite(ctx context.Context, userID, recipeID string) error
	RemoveFavorite(ctx context.Context, userID, recipeID string) error

	GetCredentialByEmail(ctx context.Context, email string) (models.Credential, error)
	InsertCredential(ctx context.Context, cred models.Credential) error
}

type RecipeStore interface {
	InsertRecipe(ctx context.Context, recipe models.Recipe) error
	GetRecipe(ctx context.Context, recipeID string) (models.Recipe, error)
	ListRecipesByAuthor(ctx context.Context, authorID string) ([]models.Recipe, error)
	ListPublishedRecipes(ctx context.Context, opts RecipeListOpts) ([]models.Recipe, error)
	ListCategories(ctx context.Context) ([]string, error)
	UpdateRecipe(ctx context.Context, recipeID string, fields map[string]any) error
	DeleteRecipe(ctx context.Context, recipeID string) error

	// LikeRecipe adds userID to likedBy and bumps likeCount in one atomic
	// update, conditioned on the user not already being a member. It reports
	// whether the update applied. UnlikeRecipe is the mirror image; the
	// membership condition is what keeps likeCount equal to |likedBy| and
	// never below zero under concurrent toggles.
	LikeRecipe(ctx context.Context, recipeID, userID string) (bool, error)
	UnlikeRecipe(ctx context.Context, recipeID, userID string) (bool, error)

	// IncCommentCount adjusts the denormalized comment counter. Negative
	// deltas are floored at zero atomically.
	IncCommentCount(ctx context.Context, recipeID string, delta int) error
}

type CommentStore interface {
	InsertComment(ctx context.Context, comment models.Comment) error
	GetComment(ctx context.Context, commentID string) (models.Comment, error)
	// ListCommentsByRecipe returns comments newest-first.
	ListCommentsByRecipe(ctx context.Context, recipeID string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
	DeleteCommentsByRecipe(ctx context.Context, recipeID string) (int64, error)
}

type Store interface {
	AccountStore
	RecipeStore
	CommentStore
}
