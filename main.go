package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"morsel/auth"
	"morsel/comments"
	"morsel/config"
	"morsel/db"
	"morsel/gitstore"
	"morsel/home"
	"morsel/images"
	"morsel/live"
	"morsel/middleware"
	"morsel/mq"
	"morsel/profile"
	"morsel/rdx"
	"morsel/recipes"
	"morsel/routes"
	"morsel/store/mongostore"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// Security headers middleware
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Middleware: Simple request logging
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[%s] %s %s", r.Method, r.RequestURI, r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}

func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

// Set up all routes and middleware layers
func setupRouter(cfg config.Config, st *mongostore.Mongo, hub *live.Hub) http.Handler {
	imageStore := gitstore.New(cfg)

	authHandler := auth.NewHandler(st, rdx.Conn, []byte(cfg.JWTSecret))
	profileHandler := profile.NewHandler(st, st, imageStore)
	recipeHandler := recipes.NewHandler(st, imageStore, hub)
	commentHandler := comments.NewHandler(st, hub)
	imageHandler := images.NewHandler(imageStore)
	homeHandler := home.NewHandler(st)

	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddAuthRoutes(router, authHandler)
	routes.AddProfileRoutes(router, profileHandler)
	routes.AddRecipeRoutes(router, recipeHandler)
	routes.AddCommentsRoutes(router, commentHandler)
	routes.AddImageRoutes(router, imageHandler)
	routes.AddHomeRoutes(router, homeHandler)
	routes.AddLiveRoutes(router, hub)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return middleware.RecoverMiddleware(loggingMiddleware(securityHeaders(c.Handler(router))))
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg := config.Load()
	if cfg.MongoURI == "" {
		log.Fatalf("MONGODB_URI environment variable is not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatalf("JWT_SECRET environment variable is not set")
	}
	middleware.JWTSecret = []byte(cfg.JWTSecret)

	client, err := db.Connect(context.TODO(), cfg.MongoURI)
	if err != nil {
		log.Fatalf("Could not connect to MongoDB: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.Printf("Mongo disconnect: %v", err)
		}
	}()
	fmt.Println("Pinged your deployment. You successfully connected to MongoDB!")

	rdx.Connect(cfg.RedisAddr)
	mq.Init(rdx.Conn)

	st := mongostore.New(client.Database(db.Database))
	hub := live.NewHub()

	handler := setupRouter(cfg, st, hub)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Cleaning up resources before shutdown...")
	})

	go func() {
		log.Printf("Server started on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on port %s: %v", cfg.Port, err)
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)
	<-shutdownChan

	log.Println("🛑 Shutdown signal received. Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited cleanly")
}
