package handler

import (
	"net/http"

	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/storage"
)

// 8 MiB covers phone camera receipt shots.
const maxUploadBytes = 8 << 20

// UploadHandler handles media uploads: deposit receipts and avatars.
type UploadHandler struct {
	uploader storage.Uploader
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploader storage.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// UploadReceipt handles POST /uploads/receipts. The returned URL is passed
// back in the deposit submission.
func (h *UploadHandler) UploadReceipt(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, storage.FolderReceipts)
}

// UploadAvatar handles POST /uploads/avatars.
func (h *UploadHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, storage.FolderAvatars)
}

func (h *UploadHandler) upload(w http.ResponseWriter, r *http.Request, folder string) {
	if _, err := subjectFromContext(r); err != nil {
		RespondError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		RespondError(w, domain.ErrValidation("file is required"))
		return
	}
	defer file.Close()

	url, err := h.uploader.UploadImage(r.Context(), file, folder)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]string{"url": url})
}
