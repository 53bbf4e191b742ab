package handlers_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
)

func multipartUpload(t *testing.T, router http.Handler, userID string, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if userID != "" {
		if err := writer.WriteField("userId", userID); err != nil {
			t.Fatalf("write userId field: %v", err)
		}
	}
	if filename != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="profilePicture"; filename="%s"`, filename))
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload-profile-picture", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadEndpoint(t *testing.T) {
	router, repo := newTestRouter(t)
	userID := signup(t, router, "agent007", "a@b.com", "pw")
	data := bytes.Repeat([]byte{0x89}, 1<<20)

	w := multipartUpload(t, router, fmt.Sprintf("%d", userID), "avatar.png", "image/png", data)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["message"] != "Profile picture updated successfully" {
		t.Fatalf("unexpected message %q", body["message"])
	}
	refPath, _ := body["profilePicture"].(string)
	if !strings.HasPrefix(refPath, "/uploads/profile-") {
		t.Fatalf("unexpected reference path %q", refPath)
	}

	// GetUser reflects the new reference.
	user, err := repo.GetByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.ProfilePicture != refPath {
		t.Fatalf("expected user row to carry %q, got %q", refPath, user.ProfilePicture)
	}
}

func TestUploadEndpointNoFile(t *testing.T) {
	router, _ := newTestRouter(t)
	userID := signup(t, router, "agent007", "a@b.com", "pw")

	w := multipartUpload(t, router, fmt.Sprintf("%d", userID), "", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "No file uploaded" {
		t.Fatalf("unexpected error %q", body["error"])
	}
}

func TestUploadEndpointOversized(t *testing.T) {
	router, _ := newTestRouter(t)
	userID := signup(t, router, "agent007", "a@b.com", "pw")
	data := make([]byte, 6<<20)

	w := multipartUpload(t, router, fmt.Sprintf("%d", userID), "big.png", "image/png", data)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
}

func TestUploadEndpointBadExtension(t *testing.T) {
	router, _ := newTestRouter(t)
	userID := signup(t, router, "agent007", "a@b.com", "pw")
	data := make([]byte, 1<<20)

	w := multipartUpload(t, router, fmt.Sprintf("%d", userID), "malware.exe", "image/png", data)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "Only image files are allowed" {
		t.Fatalf("unexpected error %q", body["error"])
	}
}

func TestUploadEndpointUnknownUser(t *testing.T) {
	router, _ := newTestRouter(t)

	w := multipartUpload(t, router, "42", "avatar.png", "image/png", []byte("png"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestUploadEndpointBadUserID(t *testing.T) {
	router, _ := newTestRouter(t)

	w := multipartUpload(t, router, "not-a-number", "avatar.png", "image/png", []byte("png"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
