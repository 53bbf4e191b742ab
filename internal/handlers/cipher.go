package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spy-mission/apiserver/internal/cipher"
)

// CipherHandler exposes the mission text transforms.
type CipherHandler struct{}

// CipherRouter registers the cipher route on the given router.
func CipherRouter(r chi.Router) {
	handler := &CipherHandler{}
	r.Post("/cipher", handler.Transform)
}

type CipherRequest struct {
	Text      string `json:"text"`
	Shift     int    `json:"shift"`
	Operation string `json:"operation"`
}

type CipherResponse struct {
	Result string `json:"result"`
}

// Transform applies the requested cipher operation to the text.
func (h *CipherHandler) Transform(w http.ResponseWriter, r *http.Request) {
	var req CipherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	var result string
	switch req.Operation {
	case "encrypt":
		if !cipher.ValidShift(req.Shift) {
			writeError(w, http.StatusBadRequest, "shift must be between 0 and 25")
			return
		}
		result = cipher.Encrypt(req.Text, req.Shift)
	case "decrypt":
		if !cipher.ValidShift(req.Shift) {
			writeError(w, http.StatusBadRequest, "shift must be between 0 and 25")
			return
		}
		result = cipher.Decrypt(req.Text, req.Shift)
	case "reverse":
		result = cipher.Reverse(req.Text)
	default:
		writeError(w, http.StatusBadRequest, "operation must be encrypt, decrypt or reverse")
		return
	}

	writeJSON(w, http.StatusOK, CipherResponse{Result: result})
}
