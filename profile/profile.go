package profile

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"morsel/gitstore"
	"morsel/hydrate"
	"morsel/models"
	"morsel/mq"
	"morsel/store"
	"morsel/utils"
)

type Handler struct {
	Accounts store.AccountStore
	Recipes  store.RecipeStore
	Images   *gitstore.Client
}

func NewHandler(accounts store.AccountStore, recipes store.RecipeStore, images *gitstore.Client) *Handler {
	return &Handler{Accounts: accounts, Recipes: recipes, Images: images}
}

// EnsureAccount creates the profile document on first sight of an identity
// and only touches updatedAt (plus explicitly supplied attributes) on every
// later call. Defaults are never re-applied to an existing account.
func EnsureAccount(ctx context.Context, accounts store.AccountStore, userID, email string, extra map[string]any) error {
	cleaned := map[string]any{}
	for k, v := range extra {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		cleaned[k] = v
	}

	_, err := accounts.GetAccount(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		now := time.Now()
		acct := models.Account{
			UserID:    userID,
			Username:  usernameFromEmail(email),
			Email:     email,
			Role:      "user",
			Favorites: []string{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if v, ok := cleaned["username"].(string); ok {
			acct.Username = v
		}
		if v, ok := cleaned["imageUrl"].(string); ok {
			acct.ImageURL = v
		}
		return accounts.InsertAccount(ctx, acct)
	}
	if err != nil {
		return err
	}
	// UpdateAccount always bumps updatedAt, even with no extras.
	return accounts.UpdateAccount(ctx, userID, cleaned)
}

func usernameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	if email != "" {
		return email
	}
	return "user"
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())
	acct, err := h.Accounts.GetAccount(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Account not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "account": acct})
}

// GetUserProfile is the public profile page payload: the account plus its
// recipes with authors attached.
func (h *Handler) GetUserProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	userID := ps.ByName("id")

	acct, err := h.Accounts.GetAccount(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Account not found")
		return
	}
	acct.Email = "" // not exposed on public profiles

	recipes, err := h.Recipes.ListRecipesByAuthor(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load recipes")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"account": acct,
		"recipes": hydrate.Recipes(ctx, h.Accounts, recipes),
	})
}

func (h *Handler) EditProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())

	var body struct {
		Username *string `json:"username"`
		ImageURL *string `json:"imageUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := map[string]any{}
	if body.Username != nil {
		if strings.TrimSpace(*body.Username) == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "Username cannot be empty")
			return
		}
		fields["username"] = strings.TrimSpace(*body.Username)
	}
	if body.ImageURL != nil {
		fields["imageUrl"] = *body.ImageURL
	}

	if err := h.Accounts.UpdateAccount(r.Context(), userID, fields); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// EditProfilePic swaps the avatar URL; the previous stored image is removed
// from the image store in the background and failures never block the save.
func (h *Handler) EditProfilePic(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromContext(ctx)

	var body struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ImageURL == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Image URL required")
		return
	}

	acct, err := h.Accounts.GetAccount(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Account not found")
		return
	}

	if err := h.Accounts.UpdateAccount(ctx, userID, map[string]any{"imageUrl": body.ImageURL}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update avatar")
		return
	}

	if old := acct.ImageURL; old != "" && old != body.ImageURL && h.Images != nil {
		go func() {
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := h.Images.DeleteByURL(cleanupCtx, old); err != nil {
				log.Printf("profile: cleanup of old avatar failed: %v", err)
			}
		}()
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// ToggleFavorite flips membership of a recipe in the account's favorites
// set and returns the resolved new state.
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromContext(ctx)
	recipeID := ps.ByName("recipeid")

	acct, err := h.Accounts.GetAccount(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Account not found")
		return
	}

	favorited := false
	for _, id := range acct.Favorites {
		if id == recipeID {
			favorited = true
			break
		}
	}

	if favorited {
		err = h.Accounts.RemoveFavorite(ctx, userID, recipeID)
	} else {
		err = h.Accounts.AddFavorite(ctx, userID, recipeID)
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update favorites")
		return
	}

	mq.Emit("favorite-toggled", mq.Index{EntityType: "recipe", Method: "PUT", EntityId: recipeID, ItemId: userID, ItemType: "favorite"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "favorited": !favorited})
}

func (h *Handler) FavoriteStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromContext(ctx)
	recipeID := ps.ByName("recipeid")

	acct, err := h.Accounts.GetAccount(ctx, userID)
	if err != nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "favorited": false})
		return
	}
	for _, id := range acct.Favorites {
		if id == recipeID {
			utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "favorited": true})
			return
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "favorited": false})
}

// ListFavorites resolves the favorites set to full recipes. References to
// recipes deleted since being favorited are skipped, not errors.
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromContext(ctx)

	acct, err := h.Accounts.GetAccount(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Account not found")
		return
	}

	recipes := []models.Recipe{}
	for _, recipeID := range acct.Favorites {
		recipe, err := h.Recipes.GetRecipe(ctx, recipeID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load favorites")
			return
		}
		recipes = append(recipes, recipe)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"recipes": hydrate.Recipes(ctx, h.Accounts, recipes),
	})
}
