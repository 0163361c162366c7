package routes

import (
	"morsel/auth"
	"morsel/comments"
	"morsel/home"
	"morsel/images"
	"morsel/live"
	"morsel/middleware"
	"morsel/profile"
	"morsel/ratelim"
	"morsel/recipes"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, h *auth.Handler) {
	router.POST("/api/v1/auth/register", ratelim.RateLimit(h.Register))
	router.POST("/api/v1/auth/login", ratelim.RateLimit(h.Login))
	router.POST("/api/v1/auth/logout", middleware.Authenticate(h.LogoutUser))
	router.POST("/api/v1/auth/token/refresh", ratelim.RateLimit(h.RefreshToken))
}

func AddProfileRoutes(router *httprouter.Router, h *profile.Handler) {
	router.GET("/api/v1/profile", middleware.Authenticate(h.GetProfile))
	router.PUT("/api/v1/profile", middleware.Authenticate(h.EditProfile))
	router.PUT("/api/v1/profile/avatar", middleware.Authenticate(h.EditProfilePic))
	router.GET("/api/v1/user/:id", middleware.OptionalAuth(h.GetUserProfile))

	router.GET("/api/v1/favorites", middleware.Authenticate(h.ListFavorites))
	router.GET("/api/v1/favorites/:recipeid", middleware.Authenticate(h.FavoriteStatus))
	router.PUT("/api/v1/favorites/:recipeid", middleware.Authenticate(h.ToggleFavorite))
}

func AddRecipeRoutes(router *httprouter.Router, h *recipes.Handler) {
	router.GET("/api/v1/recipes", middleware.OptionalAuth(h.GetRecipes))
	router.GET("/api/v1/recipes/mine", middleware.Authenticate(h.GetMyRecipes))
	router.GET("/api/v1/recipes/recipe/:id", middleware.OptionalAuth(h.GetRecipe))
	router.POST("/api/v1/recipes", middleware.Authenticate(h.CreateRecipe))
	router.PUT("/api/v1/recipes/recipe/:id", middleware.Authenticate(h.UpdateRecipe))
	router.DELETE("/api/v1/recipes/recipe/:id", middleware.Authenticate(h.DeleteRecipe))
	router.PUT("/api/v1/recipes/recipe/:id/like", middleware.Authenticate(h.ToggleLike))
}

func AddCommentsRoutes(router *httprouter.Router, h *comments.Handler) {
	router.GET("/api/v1/recipes/recipe/:id/comments", middleware.OptionalAuth(h.GetComments))
	router.POST("/api/v1/recipes/recipe/:id/comments", middleware.Authenticate(h.AddComment))
	router.DELETE("/api/v1/comments/:commentid", middleware.Authenticate(h.DeleteComment))
}

func AddImageRoutes(router *httprouter.Router, h *images.Handler) {
	router.POST("/api/v1/upload-image", ratelim.RateLimit(middleware.Authenticate(h.Upload)))
	router.DELETE("/api/v1/delete-image", middleware.Authenticate(h.Delete))
}

func AddHomeRoutes(router *httprouter.Router, h *home.Handler) {
	router.GET("/api/v1/home/:section", middleware.OptionalAuth(h.GetHomeContent))
}

func AddLiveRoutes(router *httprouter.Router, hub *live.Hub) {
	router.GET("/ws/recipes/:id", live.WebSocketHandler(hub))
}
