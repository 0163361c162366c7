package images

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"morsel/gitstore"
	"morsel/utils"
)

type Handler struct {
	Store *gitstore.Client
}

func NewHandler(store *gitstore.Client) *Handler {
	return &Handler{Store: store}
}

// Upload accepts a multipart "file" field (with optional "folder") and
// stores it in the image store. A downscaled thumbnail variant is uploaded
// in the background on a best-effort basis.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(int64(h.Store.MaxMB) << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	folder := r.FormValue("folder")

	upload, err := h.Store.UploadFile(ctx, data, mimeType, header.Filename, folder)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	go h.uploadThumbnail(data, upload.FileName, folder)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": upload})
}

// uploadThumbnail stores a 480px-wide JPEG variant next to the original.
// Failures are logged and never surfaced to the uploader.
func (h *Handler) uploadThumbnail(data []byte, fileName, folder string) {
	thumb, err := utils.Thumbnail(data, 480)
	if err != nil {
		log.Printf("images: thumbnail of %s failed: %v", fileName, err)
		return
	}
	if folder == "" {
		folder = "uploads"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := h.Store.UploadFile(ctx, thumb, "image/jpeg", fileName, folder+"/thumbs"); err != nil {
		log.Printf("images: thumbnail upload of %s failed: %v", fileName, err)
	}
}

// Delete removes a stored object by its repository path. A sha may be
// supplied to skip the lookup; a missing remote object still succeeds.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		FilePath string `json:"filePath"`
		SHA      string `json:"sha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.FilePath == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "File path required")
		return
	}

	if err := h.Store.DeleteFile(r.Context(), body.FilePath, body.SHA); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "File deleted successfully"})
}
