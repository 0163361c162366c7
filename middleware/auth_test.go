package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	"morsel/utils"
)

func signToken(t *testing.T, secret []byte, subject string, ttl time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	})
	s, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestAuthenticate(t *testing.T) {
	JWTSecret = []byte("test-secret")

	var gotUserID string
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUserID = utils.GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		authHeader string
		wantCode   int
	}{
		{"valid token", "Bearer " + signToken(t, JWTSecret, "u1", time.Hour), http.StatusOK},
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, JWTSecret, "u1", -time.Hour), http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, []byte("other"), "u1", time.Hour), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			handler(w, req, nil)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusOK && gotUserID != "u1" {
				t.Errorf("user id = %q, want u1", gotUserID)
			}
		})
	}
}

func TestOptionalAuthNeverRejects(t *testing.T) {
	JWTSecret = []byte("test-secret")

	var gotUserID string
	handler := OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUserID = utils.GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	// Anonymous request passes through with no identity.
	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	if w.Code != http.StatusOK || gotUserID != "" {
		t.Fatalf("anonymous: status = %d user = %q", w.Code, gotUserID)
	}

	// Valid token attaches identity.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, JWTSecret, "u1", time.Hour))
	w = httptest.NewRecorder()
	handler(w, req, nil)
	if w.Code != http.StatusOK || gotUserID != "u1" {
		t.Fatalf("with token: status = %d user = %q", w.Code, gotUserID)
	}
}
