package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port      string
	MongoURI  string
	RedisAddr string
	JWTSecret string

	// Image store gateway (GitHub contents API).
	GitHubToken  string
	GitHubOwner  string
	GitHubRepo   string
	GitHubBranch string
	AllowedMIME  []string
	MaxFileMB    int
}

// Load reads configuration from the environment. main loads .env first via
// godotenv, so a local file and real env vars behave the same.
func Load() Config {
	cfg := Config{
		Port:         getenv("PORT", "10000"),
		MongoURI:     os.Getenv("MONGODB_URI"),
		RedisAddr:    getenv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		GitHubToken:  os.Getenv("GITHUB_TOKEN"),
		GitHubOwner:  os.Getenv("GITHUB_OWNER"),
		GitHubRepo:   os.Getenv("GITHUB_REPO"),
		GitHubBranch: getenv("GITHUB_BRANCH", "main"),
		MaxFileMB:    10,
	}

	mimes := getenv("ALLOWED_MIME", "image/png,image/jpeg,image/webp")
	for _, m := range strings.Split(mimes, ",") {
		if m = strings.TrimSpace(m); m != "" {
			cfg.AllowedMIME = append(cfg.AllowedMIME, m)
		}
	}

	if v, err := strconv.Atoi(os.Getenv("MAX_FILE_MB")); err == nil && v > 0 {
		cfg.MaxFileMB = v
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
