package comments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

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
	Hub      *live.Hub
}

func NewHandler(st store.Store, hub *live.Hub) *Handler {
	return &Handler{Accounts: st, Recipes: st, Comments: st, Hub: hub}
}

// AddComment creates a comment and bumps the recipe's commentCount in the
// same request.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromContext(ctx)
	recipeID := ps.ByName("id")

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	content := strings.TrimSpace(body.Content)
	if content == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Comment cannot be empty")
		return
	}

	recipe, err := h.Recipes.GetRecipe(ctx, recipeID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch recipe")
		return
	}

	now := time.Now()
	comment := models.Comment{
		CommentID: utils.NewID(),
		RecipeID:  recipe.RecipeID,
		AuthorID:  userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Comments.InsertComment(ctx, comment); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add comment")
		return
	}
	if err := h.Recipes.IncCommentCount(ctx, recipeID, 1); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update comment count")
		return
	}

	if h.Hub != nil {
		h.Hub.Broadcast(live.Event{
			Type:         "comment",
			RecipeID:     recipeID,
			UserID:       userID,
			CommentID:    comment.CommentID,
			CommentCount: recipe.CommentCount + 1,
		})
	}
	mq.Emit("comment-added", mq.Index{EntityType: "comment", Method: "POST", EntityId: comment.CommentID, ItemId: recipeID})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"comment": models.CommentWithAuthor{Comment: comment, Author: hydrate.Author(ctx, h.Accounts, userID)},
	})
}

// GetComments lists a recipe's comments newest first, with authors attached.
func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	recipeID := ps.ByName("id")

	list, err := h.Comments.ListCommentsByRecipe(ctx, recipeID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":  true,
		"comments": hydrate.Comments(ctx, h.Accounts, list),
	})
}

// DeleteComment removes the caller's own comment and decrements the recipe's
// commentCount. The store floors the counter at zero.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromContext(ctx)
	commentID := ps.ByName("commentid")

	comment, err := h.Comments.GetComment(ctx, commentID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Comment not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch comment")
		return
	}
	if comment.AuthorID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "You do not own this comment")
		return
	}

	if err := h.Comments.DeleteComment(ctx, commentID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete comment")
		return
	}
	if err := h.Recipes.IncCommentCount(ctx, comment.RecipeID, -1); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update comment count")
		return
	}

	if h.Hub != nil {
		h.Hub.Broadcast(live.Event{Type: "comment-deleted", RecipeID: comment.RecipeID, UserID: userID, CommentID: commentID})
	}
	mq.Emit("comment-deleted", mq.Index{EntityType: "comment", Method: "DELETE", EntityId: commentID, ItemId: comment.RecipeID})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}
