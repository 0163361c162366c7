// Package storetest provides an in-memory store.Store for handler tests.
// Semantics mirror the Mongo implementation: conditional like/unlike
// updates, atomic-style set membership, and a floored comment counter.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"morsel/models"
	"morsel/store"
)

type Mem struct {
	mu          sync.Mutex
	accounts    map[string]models.Account
	credentials map[string]models.Credential // keyed by email
	recipes     map[string]models.Recipe
	comments    map[string]models.Comment
}

var _ store.Store = (*Mem)(nil)

func New() *Mem {
	return &Mem{
		accounts:    make(map[string]models.Account),
		credentials: make(map[string]models.Credential),
		recipes:     make(map[string]models.Recipe),
		comments:    make(map[string]models.Comment),
	}
}

func (m *Mem) GetAccount(_ context.Context, userID string) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.accounts[userID]
	if !ok {
		return models.Account{}, store.ErrNotFound
	}
	if acct.Favorites == nil {
		acct.Favorites = []string{}
	}
	return acct, nil
}

func (m *Mem) InsertAccount(_ context.Context, acct models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[acct.UserID] = acct
	return nil
}

func (m *Mem) UpdateAccount(_ context.Context, userID string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.accounts[userID]
	if !ok {
		return store.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "username":
			acct.Username = v.(string)
		case "imageUrl":
			acct.ImageURL = v.(string)
		case "role":
			acct.Role = v.(string)
		}
	}
	acct.UpdatedAt = time.Now()
	m.accounts[userID] = acct
	return nil
}

func (m *Mem) AddFavorite(_ context.Context, userID, recipeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.accounts[userID]
	if !ok {
		return store.ErrNotFound
	}
	for _, id := range acct.Favorites {
		if id == recipeID {
			return nil
		}
	}
	acct.Favorites = append(acct.Favorites, recipeID)
	acct.UpdatedAt = time.Now()
	m.accounts[userID] = acct
	return nil
}

func (m *Mem) RemoveFavorite(_ context.Context, userID, recipeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.accounts[userID]
	if !ok {
		return store.ErrNotFound
	}
	kept := acct.Favorites[:0]
	for _, id := range acct.Favorites {
		if id != recipeID {
			kept = append(kept, id)
		}
	}
	acct.Favorites = kept
	acct.UpdatedAt = time.Now()
	m.accounts[userID] = acct
	return nil
}

func (m *Mem) GetCredentialByEmail(_ context.Context, email string) (models.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cred, ok := m.credentials[email]
	if !ok {
		return models.Credential{}, store.ErrNotFound
	}
	return cred, nil
}

func (m *Mem) InsertCredential(_ context.Context, cred models.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credentials[cred.Email] = cred
	return nil
}

func (m *Mem) InsertRecipe(_ context.Context, recipe models.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recipes[recipe.RecipeID] = recipe
	return nil
}

func (m *Mem) GetRecipe(_ context.Context, recipeID string) (models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recipe, ok := m.recipes[recipeID]
	if !ok {
		return models.Recipe{}, store.ErrNotFound
	}
	if recipe.LikedBy == nil {
		recipe.LikedBy = []string{}
	}
	if recipe.Images == nil {
		recipe.Images = []string{}
	}
	return recipe, nil
}

func (m *Mem) ListRecipesByAuthor(_ context.Context, authorID string) ([]models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Recipe{}
	for _, r := range m.recipes {
		if r.AuthorID == authorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Mem) ListPublishedRecipes(_ context.Context, opts store.RecipeListOpts) ([]models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Recipe{}
	for _, r := range m.recipes {
		if !r.IsPublished {
			continue
		}
		if opts.Category != "" && r.Category != opts.Category {
			continue
		}
		if opts.Search != "" && !containsFold(r.Title, opts.Search) {
			continue
		}
		out = append(out, r)
	}
	if opts.Sort == store.SortMostLiked {
		sort.Slice(out, func(i, j int) bool {
			if out[i].LikeCount != out[j].LikeCount {
				return out[i].LikeCount > out[j].LikeCount
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	} else {
		sort.Slice(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *Mem) ListCategories(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, r := range m.recipes {
		if r.IsPublished && r.Category != "" && !seen[r.Category] {
			seen[r.Category] = true
			out = append(out, r.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *Mem) UpdateRecipe(_ context.Context, recipeID string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	recipe, ok := m.recipes[recipeID]
	if !ok {
		return store.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "title":
			recipe.Title = v.(string)
		case "slug":
			recipe.Slug = v.(string)
		case "coverUrl":
			recipe.CoverURL = v.(string)
		case "images":
			recipe.Images = v.([]string)
		case "category":
			recipe.Category = v.(string)
		case "servings":
			recipe.Servings = v.(int)
		case "ingredients":
			recipe.Ingredients = v.([]models.Ingredient)
		case "steps":
			recipe.Steps = v.([]string)
		case "isPublished":
			recipe.IsPublished = v.(bool)
		}
	}
	recipe.UpdatedAt = time.Now()
	m.recipes[recipeID] = recipe
	return nil
}

func (m *Mem) DeleteRecipe(_ context.Context, recipeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recipes[recipeID]; !ok {
		return store.ErrNotFound
	}
	delete(m.recipes, recipeID)
	return nil
}

func (m *Mem) LikeRecipe(_ context.Context, recipeID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recipe, ok := m.recipes[recipeID]
	if !ok {
		return false, nil
	}
	for _, id := range recipe.LikedBy {
		if id == userID {
			return false, nil
		}
	}
	recipe.LikedBy = append(recipe.LikedBy, userID)
	recipe.LikeCount++
	recipe.UpdatedAt = time.Now()
	m.recipes[recipeID] = recipe
	return true, nil
}

func (m *Mem) UnlikeRecipe(_ context.Context, recipeID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recipe, ok := m.recipes[recipeID]
	if !ok {
		return false, nil
	}
	found := false
	kept := recipe.LikedBy[:0]
	for _, id := range recipe.LikedBy {
		if id == userID {
			found = true
			continue
		}
		kept = append(kept, id)
	}
	if !found {
		return false, nil
	}
	recipe.LikedBy = kept
	recipe.LikeCount--
	recipe.UpdatedAt = time.Now()
	m.recipes[recipeID] = recipe
	return true, nil
}

func (m *Mem) IncCommentCount(_ context.Context, recipeID string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	recipe, ok := m.recipes[recipeID]
	if !ok {
		return nil
	}
	if delta < 0 && recipe.CommentCount <= 0 {
		return nil
	}
	recipe.CommentCount += delta
	recipe.UpdatedAt = time.Now()
	m.recipes[recipeID] = recipe
	return nil
}

func (m *Mem) InsertComment(_ context.Context, comment models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments[comment.CommentID] = comment
	return nil
}

func (m *Mem) GetComment(_ context.Context, commentID string) (models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment, ok := m.comments[commentID]
	if !ok {
		return models.Comment{}, store.ErrNotFound
	}
	return comment, nil
}

func (m *Mem) ListCommentsByRecipe(_ context.Context, recipeID string) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Comment{}
	for _, c := range m.comments {
		if c.RecipeID == recipeID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Mem) DeleteComment(_ context.Context, commentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[commentID]; !ok {
		return store.ErrNotFound
	}
	delete(m.comments, commentID)
	return nil
}

func (m *Mem) DeleteCommentsByRecipe(_ context.Context, recipeID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, c := range m.comments {
		if c.RecipeID == recipeID {
			delete(m.comments, id)
			n++
		}
	}
	return n, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
