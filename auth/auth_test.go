package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"morsel/middleware"
	"morsel/store/storetest"
)

var testSecret = []byte("test-secret")

func newTestHandler() (*Handler, *storetest.Mem) {
	st := storetest.New()
	return NewHandler(st, nil, testSecret), st
}

func register(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte(body)))
	h.Register(w, req, nil)
	return w
}

func login(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(body)))
	h.Login(w, req, nil)
	return w
}

type tokenResponse struct {
	Success      bool   `json:"success"`
	UserID       string `json:"userid"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func decodeTokens(t *testing.T, w *httptest.ResponseRecorder) tokenResponse {
	t.Helper()
	var resp tokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode token response: %v", err)
	}
	return resp
}

func TestRegisterIssuesTokensAndCreatesAccount(t *testing.T) {
	h, st := newTestHandler()

	w := register(t, h, `{"email":"Cook@Example.com","password":"secret1","username":"cook"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	resp := decodeTokens(t, w)
	if resp.UserID == "" || resp.Token == "" || resp.RefreshToken == "" {
		t.Fatalf("incomplete token response: %+v", resp)
	}

	// Email is normalized to lower case for the credential record.
	if _, err := st.GetCredentialByEmail(context.Background(), "cook@example.com"); err != nil {
		t.Errorf("credential not stored under normalized email: %v", err)
	}
	acct, err := st.GetAccount(context.Background(), resp.UserID)
	if err != nil {
		t.Fatalf("profile document missing: %v", err)
	}
	if acct.Username != "cook" {
		t.Errorf("username = %q, want cook", acct.Username)
	}

	claims := &middleware.Claims{}
	if _, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) { return testSecret, nil }); err != nil {
		t.Fatalf("access token does not verify: %v", err)
	}
	if claims.Subject != resp.UserID {
		t.Errorf("token subject = %q, want %q", claims.Subject, resp.UserID)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	h, _ := newTestHandler()

	if w := register(t, h, `{"email":"a@b.c","password":"secret1"}`); w.Code != http.StatusOK {
		t.Fatalf("first register status = %d", w.Code)
	}
	if w := register(t, h, `{"email":"a@b.c","password":"another1"}`); w.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", w.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	h, _ := newTestHandler()

	tests := []string{
		`{"password":"secret1"}`,
		`{"email":"a@b.c","password":"tiny"}`,
		`not json`,
	}
	for _, body := range tests {
		if w := register(t, h, body); w.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, w.Code)
		}
	}
}

func TestLoginRoundTrip(t *testing.T) {
	h, _ := newTestHandler()
	register(t, h, `{"email":"a@b.c","password":"secret1"}`)

	if w := login(t, h, `{"email":"a@b.c","password":"secret1"}`); w.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", w.Code, w.Body.String())
	}
	if w := login(t, h, `{"email":"a@b.c","password":"wrong-pass"}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d, want 401", w.Code)
	}
	if w := login(t, h, `{"email":"nobody@b.c","password":"secret1"}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("unknown email status = %d, want 401", w.Code)
	}
}

func TestRefreshToken(t *testing.T) {
	h, _ := newTestHandler()
	first := decodeTokens(t, register(t, h, `{"email":"a@b.c","password":"secret1"}`))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token/refresh",
		bytes.NewReader([]byte(`{"refreshToken":"`+first.RefreshToken+`"}`)))
	h.RefreshToken(w, req, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("refresh status = %d: %s", w.Code, w.Body.String())
	}
	next := decodeTokens(t, w)
	if next.UserID != first.UserID {
		t.Errorf("refreshed userid = %q, want %q", next.UserID, first.UserID)
	}
	if next.Token == "" {
		t.Error("refresh returned no access token")
	}
}

func TestRefreshTokenRejectsGarbage(t *testing.T) {
	h, _ := newTestHandler()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token/refresh",
		bytes.NewReader([]byte(`{"refreshToken":"not-a-jwt"}`)))
	h.RefreshToken(w, req, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
