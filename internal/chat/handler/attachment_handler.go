package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"matchchat/internal/common"
	"matchchat/internal/dbmongo"
)

// 25 MB, matching the largest audio clip the mobile clients record.
const maxAttachmentSize = 25 << 20

// AttachmentHandler serves the blobs behind image/file/audio messages. The
// message row stores only the attachment id returned by Upload.
type AttachmentHandler struct {
	storage *dbmongo.AttachmentStorage
}

func NewAttachmentHandler(storage *dbmongo.AttachmentStorage) *AttachmentHandler {
	return &AttachmentHandler{storage: storage}
}

func (h *AttachmentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/chat/attachments", h.Upload).Methods("POST")
	router.HandleFunc("/chat/attachments/{fileId}", h.Download).Methods("GET")
}

func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	uploaderID := r.FormValue("user_id")
	if err := common.ValidateUserID(uploaderID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	attachment, err := h.storage.UploadFile(r.Context(), header.Filename, mimeType, uploaderID, file)
	if err != nil {
		log.Printf("attachment upload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"attachment": attachment,
	})
}

func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileId"]

	stream, attachment, err := h.storage.DownloadFile(r.Context(), fileID)
	if errors.Is(err, common.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		log.Printf("attachment download failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Download failed")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", attachment.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", attachment.Size))
	if _, err := io.Copy(w, stream); err != nil {
		log.Printf("attachment stream failed: %v", err)
	}
}
