package home

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"morsel/models"
	"morsel/store/storetest"
)

func TestGetHomeContent(t *testing.T) {
	st := storetest.New()
	h := NewHandler(st)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	st.InsertRecipe(ctx, models.Recipe{RecipeID: "r1", Title: "Old favorite", Category: "Curry", IsPublished: true, LikeCount: 9, CreatedAt: base})
	st.InsertRecipe(ctx, models.Recipe{RecipeID: "r2", Title: "Fresh post", Category: "Rice", IsPublished: true, LikeCount: 1, CreatedAt: base.Add(time.Minute)})

	get := func(section string) *httptest.ResponseRecorder {
		t.Helper()
		w := httptest.NewRecorder()
		h.GetHomeContent(w, httptest.NewRequest(http.MethodGet, "/api/v1/home/"+section, nil),
			httprouter.Params{{Key: "section", Value: section}})
		return w
	}

	var resp struct {
		Recipes []struct {
			RecipeID string `json:"recipeid"`
		} `json:"recipes"`
		Categories []string `json:"categories"`
	}

	w := get("newest")
	if w.Code != http.StatusOK {
		t.Fatalf("newest status = %d", w.Code)
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Recipes) != 2 || resp.Recipes[0].RecipeID != "r2" {
		t.Errorf("newest = %v, want r2 first", resp.Recipes)
	}

	w = get("popular")
	resp.Recipes = nil
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Recipes) != 2 || resp.Recipes[0].RecipeID != "r1" {
		t.Errorf("popular = %v, want r1 first", resp.Recipes)
	}

	w = get("categories")
	resp.Categories = nil
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Categories) != 2 {
		t.Errorf("categories = %v, want 2", resp.Categories)
	}

	if w = get("bogus"); w.Code != http.StatusNotFound {
		t.Errorf("bogus section status = %d, want 404", w.Code)
	}
}
