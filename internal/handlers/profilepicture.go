package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/spy-mission/apiserver/internal/services"
	"github.com/spy-mission/apiserver/internal/store"
)

const (
	maxMultipartMemory = 8 << 20
	formFieldPicture   = "profilePicture"
	formFieldUserID    = "userId"
)

// ProfilePictureHandler accepts avatar uploads.
type ProfilePictureHandler struct {
	pictureService *services.ProfilePictureService
}

// NewProfilePictureHandler constructs a handler with the provided service.
func NewProfilePictureHandler(pictureService *services.ProfilePictureService) *ProfilePictureHandler {
	return &ProfilePictureHandler{pictureService: pictureService}
}

// ProfilePictureRouter registers the upload route on the given router.
func ProfilePictureRouter(r chi.Router, pictureService *services.ProfilePictureService) {
	handler := NewProfilePictureHandler(pictureService)

	r.Post("/upload-profile-picture", handler.Upload)
}

type UploadResponse struct {
	Message        string `json:"message"`
	ProfilePicture string `json:"profilePicture"`
}

// Upload validates and stores a profile picture for the given user.
func (h *ProfilePictureHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Allow slack over the picture cap so an oversized file is rejected
	// with the dedicated status instead of a multipart parse failure.
	r.Body = http.MaxBytesReader(w, r.Body, h.pictureService.MaxBytes()+maxMultipartMemory)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	userID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue(formFieldUserID)), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	file, header, err := r.FormFile(formFieldPicture)
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.pictureService.MaxBytes()+1))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	refPath, err := h.pictureService.Upload(r.Context(), userID, data, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFileTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		case errors.Is(err, services.ErrUnsupportedMedia):
			writeError(w, http.StatusUnsupportedMediaType, "Only image files are allowed")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to update profile picture")
		}
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Message:        "Profile picture updated successfully",
		ProfilePicture: refPath,
	})
}
