// Package gitstore uses a GitHub repository as a crude object store for
// uploaded images, via the contents REST API. Uploads validate locally
// before any network call; deletes are idempotent (a missing remote object
// counts as success).
package gitstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"morsel/apperr"
	"morsel/config"
	"morsel/utils"
)

type Client struct {
	Token   string
	Owner   string
	Repo    string
	Branch  string
	Allowed []string
	MaxMB   int

	// APIBase and RawBase exist so tests can point the client at a fake
	// upstream.
	APIBase string
	RawBase string

	HTTPClient *http.Client
}

type Upload struct {
	FileName    string `json:"fileName"`
	FilePath    string `json:"filePath"`
	URL         string `json:"url"`
	DownloadURL string `json:"downloadUrl"`
	SHA         string `json:"sha"`
	Size        int    `json:"size"`
	Type        string `json:"type"`
}

func New(cfg config.Config) *Client {
	return &Client{
		Token:      cfg.GitHubToken,
		Owner:      cfg.GitHubOwner,
		Repo:       cfg.GitHubRepo,
		Branch:     cfg.GitHubBranch,
		Allowed:    cfg.AllowedMIME,
		MaxMB:      cfg.MaxFileMB,
		APIBase:    "https://api.github.com",
		RawBase:    "https://raw.githubusercontent.com",
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) configured() error {
	if c.Token == "" || c.Owner == "" || c.Repo == "" {
		err := apperr.New(apperr.Gateway, "image store not configured")
		err.Status = http.StatusInternalServerError
		return err
	}
	return nil
}

func (c *Client) contentsURL(filePath string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.APIBase, c.Owner, c.Repo, filePath)
}

// UploadFile stores the binary under folder and returns the public raw URL.
// MIME and size checks run before any request goes upstream.
func (c *Client) UploadFile(ctx context.Context, data []byte, mimeType, origName, folder string) (*Upload, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	if !c.mimeAllowed(mimeType) {
		return nil, apperr.Newf(apperr.Validation,
			"file type %s not allowed, allowed types: %s", mimeType, strings.Join(c.Allowed, ", "))
	}
	if len(data) > c.MaxMB<<20 {
		return nil, apperr.Newf(apperr.Validation,
			"file size %.2fMB exceeds limit of %dMB", float64(len(data))/(1<<20), c.MaxMB)
	}

	ext := strings.TrimPrefix(path.Ext(origName), ".")
	if ext == "" {
		ext = "jpg"
	}
	fileName := fmt.Sprintf("%d-%s.%s", time.Now().UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:10], ext)
	if folder == "" {
		folder = "uploads"
	}
	filePath := folder + "/" + fileName

	body, _ := json.Marshal(map[string]string{
		"message": "Upload image: " + fileName,
		"content": base64.StdEncoding.EncodeToString(data),
		"branch":  c.Branch,
	})

	resp, raw, err := c.do(ctx, http.MethodPut, c.contentsURL(filePath), body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.gatewayError("failed to upload to image store", resp.StatusCode, raw)
	}

	var parsed struct {
		Content struct {
			SHA         string `json:"sha"`
			Name        string `json:"name"`
			Path        string `json:"path"`
			DownloadURL string `json:"download_url"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, apperr.Wrap(apperr.Gateway, "unexpected image store response", err)
	}

	return &Upload{
		FileName:    fileName,
		FilePath:    filePath,
		URL:         fmt.Sprintf("%s/%s/%s/%s/%s", c.RawBase, c.Owner, c.Repo, c.Branch, filePath),
		DownloadURL: parsed.Content.DownloadURL,
		SHA:         parsed.Content.SHA,
		Size:        len(data),
		Type:        mimeType,
	}, nil
}

// DeleteFile removes a stored object. When sha is empty it is resolved with
// a lookup first. Not-found at either step resolves to success.
func (c *Client) DeleteFile(ctx context.Context, filePath, sha string) error {
	if err := c.configured(); err != nil {
		return err
	}
	if filePath == "" {
		return apperr.New(apperr.Validation, "file path is required")
	}

	if sha == "" {
		resp, raw, err := c.do(ctx, http.MethodGet, c.contentsURL(filePath), nil)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusNotFound {
			return nil
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return c.gatewayError("failed to look up stored file", resp.StatusCode, raw)
		}
		var parsed struct {
			SHA string `json:"sha"`
		}
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return apperr.Wrap(apperr.Gateway, "unexpected image store response", err)
		}
		sha = parsed.SHA
	}

	body, _ := json.Marshal(map[string]string{
		"message": "Delete image: " + path.Base(filePath),
		"sha":     sha,
		"branch":  c.Branch,
	})

	resp, raw, err := c.do(ctx, http.MethodDelete, c.contentsURL(filePath), body)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.gatewayError("failed to delete from image store", resp.StatusCode, raw)
	}
	return nil
}

// DeleteByURL resolves a raw-content URL back to its repository path and
// deletes it. Non-store URLs are skipped silently.
func (c *Client) DeleteByURL(ctx context.Context, url string) error {
	filePath := utils.PathFromRawURL(url)
	if filePath == "" {
		return nil
	}
	return c.DeleteFile(ctx, filePath, "")
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (*http.Response, []byte, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Gateway, "image store request failed", err)
	}
	req.Header.Set("Authorization", "token "+c.Token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Gateway, "image store unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Gateway, "image store response unreadable", err)
	}
	return resp, raw, nil
}

func (c *Client) gatewayError(msg string, status int, raw []byte) error {
	err := apperr.New(apperr.Gateway, msg)
	err.Status = status
	err.Details = string(raw)
	return err
}

func (c *Client) mimeAllowed(mimeType string) bool {
	for _, m := range c.Allowed {
		if m == mimeType {
			return true
		}
	}
	return false
}

