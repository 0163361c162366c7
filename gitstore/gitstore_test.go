package gitstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"morsel/apperr"
)

type fakeUpstream struct {
	calls  int64
	server *httptest.Server
}

// newFakeUpstream stands in for the contents API. It answers PUT with a
// created content payload, GET with a sha lookup, and DELETE with 200,
// unless the path contains "missing" which yields 404.
func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.calls, 1)
		if strings.Contains(r.URL.Path, "missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodPut:
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{
				"content": map[string]any{
					"sha":          "abc123",
					"name":         "x.png",
					"path":         strings.TrimPrefix(r.URL.Path, "/"),
					"download_url": "https://example.com/dl/x.png",
				},
			})
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]string{"sha": "lookup-sha"})
		case http.MethodDelete:
			json.NewEncoder(w).Encode(map[string]string{})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(f.server.Close)
	return f
}

func newTestClient(upstream *fakeUpstream) *Client {
	return &Client{
		Token:      "t",
		Owner:      "owner",
		Repo:       "repo",
		Branch:     "main",
		Allowed:    []string{"image/png", "image/jpeg"},
		MaxMB:      1,
		APIBase:    upstream.server.URL,
		RawBase:    "https://raw.githubusercontent.com",
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestUploadFile(t *testing.T) {
	upstream := newFakeUpstream(t)
	c := newTestClient(upstream)

	up, err := c.UploadFile(context.Background(), []byte("png-bytes"), "image/png", "dish.png", "recipes")
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if up.SHA != "abc123" {
		t.Errorf("sha = %q", up.SHA)
	}
	if !strings.HasPrefix(up.FilePath, "recipes/") || !strings.HasSuffix(up.FileName, ".png") {
		t.Errorf("filePath = %q fileName = %q", up.FilePath, up.FileName)
	}
	wantPrefix := "https://raw.githubusercontent.com/owner/repo/main/recipes/"
	if !strings.HasPrefix(up.URL, wantPrefix) {
		t.Errorf("url = %q, want prefix %q", up.URL, wantPrefix)
	}
	if up.Type != "image/png" || up.Size != len("png-bytes") {
		t.Errorf("type/size = %q/%d", up.Type, up.Size)
	}
}

func TestUploadFileDefaultFolder(t *testing.T) {
	upstream := newFakeUpstream(t)
	c := newTestClient(upstream)

	up, err := c.UploadFile(context.Background(), []byte("x"), "image/png", "a.png", "")
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if !strings.HasPrefix(up.FilePath, "uploads/") {
		t.Errorf("filePath = %q, want uploads/ default", up.FilePath)
	}
}

func TestUploadRejectsBeforeAnyNetworkCall(t *testing.T) {
	upstream := newFakeUpstream(t)
	c := newTestClient(upstream)
	ctx := context.Background()

	if _, err := c.UploadFile(ctx, []byte("x"), "text/plain", "a.txt", ""); apperr.KindOf(err) != apperr.Validation {
		t.Errorf("disallowed mime: kind = %v, want Validation", apperr.KindOf(err))
	}

	big := make([]byte, 2<<20)
	if _, err := c.UploadFile(ctx, big, "image/png", "big.png", ""); apperr.KindOf(err) != apperr.Validation {
		t.Errorf("oversize: kind = %v, want Validation", apperr.KindOf(err))
	}

	if n := atomic.LoadInt64(&upstream.calls); n != 0 {
		t.Errorf("upstream called %d times for locally invalid uploads, want 0", n)
	}
}

func TestUploadUnconfiguredClient(t *testing.T) {
	c := &Client{HTTPClient: http.DefaultClient}
	_, err := c.UploadFile(context.Background(), []byte("x"), "image/png", "a.png", "")
	if apperr.KindOf(err) != apperr.Gateway {
		t.Fatalf("kind = %v, want Gateway", apperr.KindOf(err))
	}
	if apperr.HTTPStatus(err) != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", apperr.HTTPStatus(err))
	}
}

func TestDeleteFileWithShaLookup(t *testing.T) {
	upstream := newFakeUpstream(t)
	c := newTestClient(upstream)

	if err := c.DeleteFile(context.Background(), "uploads/a.png", ""); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	// One GET for the sha, one DELETE.
	if n := atomic.LoadInt64(&upstream.calls); n != 2 {
		t.Errorf("upstream calls = %d, want 2", n)
	}
}

func TestDeleteFileWithKnownSha(t *testing.T) {
	upstream := newFakeUpstream(t)
	c := newTestClient(upstream)

	if err := c.DeleteFile(context.Background(), "uploads/a.png", "abc123"); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if n := atomic.LoadInt64(&upstream.calls); n != 1 {
		t.Errorf("upstream calls = %d, want 1 (no lookup)", n)
	}
}

func TestDeleteMissingFileSucceeds(t *testing.T) {
	upstream := newFakeUpstream(t)
	c := newTestClient(upstream)

	if err := c.DeleteFile(context.Background(), "uploads/missing.png", ""); err != nil {
		t.Fatalf("deleting a missing file should succeed, got %v", err)
	}
}

func TestDeleteFileRequiresPath(t *testing.T) {
	upstream := newFakeUpstream(t)
	c := newTestClient(upstream)

	err := c.DeleteFile(context.Background(), "", "")
	if apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("kind = %v, want Validation", apperr.KindOf(err))
	}
}

func TestDeleteByURL(t *testing.T) {
	upstream := newFakeUpstream(t)
	c := newTestClient(upstream)
	ctx := context.Background()

	if err := c.DeleteByURL(ctx, "https://raw.githubusercontent.com/owner/repo/main/uploads/a.png"); err != nil {
		t.Fatalf("DeleteByURL: %v", err)
	}
	before := atomic.LoadInt64(&upstream.calls)

	// URLs that do not point into the store are skipped without a request.
	if err := c.DeleteByURL(ctx, "https://example.com/elsewhere.png"); err != nil {
		t.Fatalf("foreign URL should be a no-op, got %v", err)
	}
	if n := atomic.LoadInt64(&upstream.calls); n != before {
		t.Errorf("foreign URL triggered %d upstream calls", n-before)
	}
}

func TestUploadGatewayErrorCarriesUpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"branch not found"}`))
	}))
	defer server.Close()

	c := newTestClient(&fakeUpstream{server: server})
	_, err := c.UploadFile(context.Background(), []byte("x"), "image/png", "a.png", "")
	if apperr.KindOf(err) != apperr.Gateway {
		t.Fatalf("kind = %v, want Gateway", apperr.KindOf(err))
	}
	if apperr.HTTPStatus(err) != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want upstream 422", apperr.HTTPStatus(err))
	}
	if details := apperr.DetailsOf(err); !strings.Contains(details, "branch not found") {
		t.Errorf("details = %q, want upstream body", details)
	}
}
