package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"morsel/middleware"
	"morsel/models"
	"morsel/profile"
	"morsel/store"
	"morsel/utils"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

type Handler struct {
	Accounts store.AccountStore
	Redis    *redis.Client
	Secret   []byte
}

func NewHandler(accounts store.AccountStore, rdb *redis.Client, secret []byte) *Handler {
	return &Handler{Accounts: accounts, Redis: rdb, Secret: secret}
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	ImageURL string `json:"imageUrl"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	if body.Email == "" || len(body.Password) < 6 {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and a password of at least 6 characters are required")
		return
	}

	ctx := r.Context()
	if _, err := h.Accounts.GetCredentialByEmail(ctx, body.Email); err == nil {
		utils.RespondWithError(w, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	userID := utils.NewID()
	cred := models.Credential{
		UserID:       userID,
		Email:        body.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := h.Accounts.InsertCredential(ctx, cred); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	if err := profile.EnsureAccount(ctx, h.Accounts, userID, body.Email, map[string]any{
		"username": body.Username,
		"imageUrl": body.ImageURL,
	}); err != nil {
		log.Printf("auth: ensure account for %s: %v", userID, err)
	}

	h.issueTokens(w, r, userID)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	ctx := r.Context()
	cred, err := h.Accounts.GetCredentialByEmail(ctx, body.Email)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(body.Password)) != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	// First login after an out-of-band account creation still gets a
	// profile document; repeat logins only touch updatedAt.
	if err := profile.EnsureAccount(ctx, h.Accounts, cred.UserID, cred.Email, nil); err != nil {
		log.Printf("auth: ensure account for %s: %v", cred.UserID, err)
	}

	h.issueTokens(w, r, cred.UserID)
}

func (h *Handler) LogoutUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())
	if h.Redis != nil {
		if err := h.Redis.Del(r.Context(), refreshKey(userID)).Err(); err != nil {
			log.Printf("auth: revoke refresh for %s: %v", userID, err)
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Refresh token required")
		return
	}

	claims := &middleware.Claims{}
	token, err := jwt.ParseWithClaims(body.RefreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return h.Secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	// Refresh tokens are single-session: the stored JTI must match.
	if h.Redis != nil {
		stored, err := h.Redis.Get(r.Context(), refreshKey(claims.Subject)).Result()
		if err != nil || stored != claims.ID {
			utils.RespondWithError(w, http.StatusUnauthorized, "Refresh token revoked")
			return
		}
	}

	h.issueTokens(w, r, claims.Subject)
}

func (h *Handler) issueTokens(w http.ResponseWriter, r *http.Request, userID string) {
	role := "user"
	if acct, err := h.Accounts.GetAccount(r.Context(), userID); err == nil && acct.Role != "" {
		role = acct.Role
	}

	now := time.Now()
	access := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTTL)),
		},
	})
	accessStr, err := access.SignedString(h.Secret)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not issue token")
		return
	}

	jti := utils.NewID()
	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(refreshTTL)),
		},
	})
	refreshStr, err := refresh.SignedString(h.Secret)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not issue token")
		return
	}

	if h.Redis != nil {
		if err := h.Redis.Set(r.Context(), refreshKey(userID), jti, refreshTTL).Err(); err != nil {
			log.Printf("auth: store refresh for %s: %v", userID, err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":      true,
		"userid":       userID,
		"token":        accessStr,
		"refreshToken": refreshStr,
	})
}

func refreshKey(userID string) string { return "refresh:" + userID }
