package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"morsel/gitstore"
	"morsel/hydrate"
	"morsel/live"
	"morsel/models"
	"morsel/mq"
	"morsel/store"
	"morsel/utils"
)

type Handler struct {
	Accounts store.AccountStore
	Recipes  store.RecipeStore
	Comments store.CommentStore
	Images   *gitstore.Client
	Hub      *live.Hub
}

func NewHandler(st store.Store, images *gitstore.Client, hub *live.Hub) *Handler {
	return &Handler{Accounts: st, Recipes: st, Comments: st, Images: images, Hub: hub}
}

type recipeBody struct {
	Title       string              `json:"title"`
	CoverURL    string              `json:"coverUrl"`
	Images      []string            `json:"images"`
	Category    string              `json:"category"`
	Servings    int                 `json:"servings"`
	Ingredients []models.Ingredient `json:"ingredients"`
	Steps       []string            `json:"steps"`
	IsPublished *bool               `json:"isPublished"`
}

func validateRecipeBody(body recipeBody) string {
	if strings.TrimSpace(body.Title) == "" {
		return "Title is required"
	}
	if body.CoverURL == "" {
		return "Cover image is required"
	}
	complete := 0
	for _, ing := range body.Ingredients {
		if strings.TrimSpace(ing.Name) != "" && ing.Qty > 0 && strings.TrimSpace(ing.Unit) != "" {
			complete++
		}
	}
	if complete == 0 {
		return "At least one complete ingredient (name, quantity, unit) is required"
	}
	steps := 0
	for _, s := range body.Steps {
		if strings.TrimSpace(s) != "" {
			steps++
		}
	}
	if steps == 0 {
		return "At least one step is required"
	}
	return ""
}

// GetRecipes lists published recipes. Sorting and limiting happen in the
// store, never by fetching everything and sorting here.
func (h *Handler) GetRecipes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	q := r.URL.Query()

	opts := store.RecipeListOpts{
		Sort:     store.SortNewest,
		Search:   q.Get("search"),
		Category: q.Get("category"),
	}
	if q.Get("sort") == "mostLiked" || q.Get("sort") == "popular" {
		opts.Sort = store.SortMostLiked
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}

	recipes, err := h.Recipes.ListPublishedRecipes(ctx, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch recipes")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"recipes": hydrate.Recipes(ctx, h.Accounts, recipes),
	})
}

func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	recipe, err := h.Recipes.GetRecipe(ctx, ps.ByName("id"))
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch recipe")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"recipe":  models.RecipeWithAuthor{Recipe: recipe, Author: hydrate.Author(ctx, h.Accounts, recipe.AuthorID)},
	})
}

func (h *Handler) GetMyRecipes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromContext(ctx)

	recipes, err := h.Recipes.ListRecipesByAuthor(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch recipes")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"recipes": hydrate.Recipes(ctx, h.Accounts, recipes),
	})
}

func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromContext(ctx)

	var body recipeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validateRecipeBody(body); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	published := true
	if body.IsPublished != nil {
		published = *body.IsPublished
	}
	if body.Images == nil {
		body.Images = []string{}
	}

	now := time.Now()
	recipe := models.Recipe{
		RecipeID:    utils.NewID(),
		AuthorID:    userID,
		Title:       strings.TrimSpace(body.Title),
		Slug:        utils.Slugify(body.Title),
		CoverURL:    body.CoverURL,
		Images:      body.Images,
		Category:    body.Category,
		Servings:    body.Servings,
		Ingredients: body.Ingredients,
		Steps:       body.Steps,
		IsPublished: published,
		LikedBy:     []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Recipes.InsertRecipe(ctx, recipe); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create recipe")
		return
	}

	mq.Emit("recipe-created", mq.Index{EntityType: "recipe", Method: "POST", EntityId: recipe.RecipeID, ItemId: userID})
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "recipeid": recipe.RecipeID})
}

// UpdateRecipe applies a partial edit. Ownership is checked before any
// mutating call goes to the store.
func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromContext(ctx)
	recipeID := ps.ByName("id")

	existing, err := h.Recipes.GetRecipe(ctx, recipeID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch recipe")
		return
	}
	if existing.AuthorID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "You do not own this recipe")
		return
	}

	var body recipeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validateRecipeBody(body); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	fields := map[string]any{
		"title":       strings.TrimSpace(body.Title),
		"slug":        utils.Slugify(body.Title),
		"coverUrl":    body.CoverURL,
		"category":    body.Category,
		"servings":    body.Servings,
		"ingredients": body.Ingredients,
		"steps":       body.Steps,
	}
	if body.Images != nil {
		fields["images"] = body.Images
	}
	if body.IsPublished != nil {
		fields["isPublished"] = *body.IsPublished
	}

	if err := h.Recipes.UpdateRecipe(ctx, recipeID, fields); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update recipe")
		return
	}

	// Replaced cover images are cleaned up in the background; a failed
	// cleanup never fails the save.
	if existing.CoverURL != "" && existing.CoverURL != body.CoverURL && h.Images != nil {
		old := existing.CoverURL
		go func() {
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := h.Images.DeleteByURL(cleanupCtx, old); err != nil {
				log.Printf("recipes: cleanup of replaced cover failed: %v", err)
			}
		}()
	}

	mq.Emit("recipe-updated", mq.Index{EntityType: "recipe", Method: "PUT", EntityId: recipeID, ItemId: userID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// DeleteRecipe cascades: comments first, stored images best-effort in the
// background, the recipe document last.
func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromContext(ctx)
	recipeID := ps.ByName("id")

	existing, err := h.Recipes.GetRecipe(ctx, recipeID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch recipe")
		return
	}
	if existing.AuthorID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "You do not own this recipe")
		return
	}

	if h.Images != nil {
		urls := append([]string{}, existing.Images...)
		if existing.CoverURL != "" {
			urls = append(urls, existing.CoverURL)
		}
		go func() {
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			for _, u := range urls {
				if err := h.Images.DeleteByURL(cleanupCtx, u); err != nil {
					log.Printf("recipes: cleanup of %s failed: %v", u, err)
				}
			}
		}()
	}

	if _, err := h.Comments.DeleteCommentsByRecipe(ctx, recipeID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete recipe comments")
		return
	}
	if err := h.Recipes.DeleteRecipe(ctx, recipeID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete recipe")
		return
	}

	mq.Emit("recipe-deleted", mq.Index{EntityType: "recipe", Method: "DELETE", EntityId: recipeID, ItemId: userID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// ToggleLike flips the caller's membership in likedBy. The set mutation and
// counter bump are one conditional store update, so likeCount always equals
// the set size; the response carries the resolved state for the client's
// request-confirmed render.
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromContext(ctx)
	recipeID := ps.ByName("id")

	recipe, err := h.Recipes.GetRecipe(ctx, recipeID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch recipe")
		return
	}

	liked := false
	for _, id := range recipe.LikedBy {
		if id == userID {
			liked = true
			break
		}
	}

	if liked {
		_, err = h.Recipes.UnlikeRecipe(ctx, recipeID, userID)
	} else {
		_, err = h.Recipes.LikeRecipe(ctx, recipeID, userID)
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update like")
		return
	}

	// Re-read so a lost race still reports the state the store settled on.
	updated, err := h.Recipes.GetRecipe(ctx, recipeID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch recipe")
		return
	}
	nowLiked := false
	for _, id := range updated.LikedBy {
		if id == userID {
			nowLiked = true
			break
		}
	}

	if h.Hub != nil {
		h.Hub.Broadcast(live.Event{Type: "like", RecipeID: recipeID, UserID: userID, LikeCount: updated.LikeCount})
	}
	mq.Emit("recipe-liked", mq.Index{EntityType: "recipe", Method: "PUT", EntityId: recipeID, ItemId: userID, ItemType: "like"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":   true,
		"liked":     nowLiked,
		"likeCount": updated.LikeCount,
	})
}
