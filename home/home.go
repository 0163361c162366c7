package home

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"morsel/hydrate"
	"morsel/store"
	"morsel/utils"
)

type Handler struct {
	Accounts store.AccountStore
	Recipes  store.RecipeStore
}

func NewHandler(st store.Store) *Handler {
	return &Handler{Accounts: st, Recipes: st}
}

const homeSectionLimit = 12

// GetHomeContent handles all of the landing page sections under /home/:section
func (h *Handler) GetHomeContent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	section := strings.ToLower(ps.ByName("section"))

	switch section {
	case "newest":
		recipes, err := h.Recipes.ListPublishedRecipes(ctx, store.RecipeListOpts{
			Sort:  store.SortNewest,
			Limit: homeSectionLimit,
		})
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch recipes")
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "recipes": hydrate.Recipes(ctx, h.Accounts, recipes)})
	case "popular":
		recipes, err := h.Recipes.ListPublishedRecipes(ctx, store.RecipeListOpts{
			Sort:  store.SortMostLiked,
			Limit: homeSectionLimit,
		})
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch recipes")
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "recipes": hydrate.Recipes(ctx, h.Accounts, recipes)})
	case "categories":
		categories, err := h.Recipes.ListCategories(ctx)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch categories")
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "categories": categories})
	default:
		utils.RespondWithError(w, http.StatusNotFound, "Invalid home section")
	}
}
