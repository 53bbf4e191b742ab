package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"path"
	"strings"
	"time"

	"github.com/spy-mission/apiserver/internal/storage"
)

// DefaultMaxPictureBytes caps accepted profile picture uploads.
const DefaultMaxPictureBytes = 5 << 20

// allowedImageTypes maps accepted file extensions to their expected
// declared content types. Both the extension and the declared type must
// match, so a spoofed extension alone is not enough.
var allowedImageTypes = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// ProfilePictureService validates avatar uploads, persists the bytes and
// records the reference path on the user row.
type ProfilePictureService struct {
	users    UserRepository
	storage  *storage.Storage
	events   *EventPublisher
	maxBytes int64
}

func NewProfilePictureService(users UserRepository, st *storage.Storage, events *EventPublisher, maxBytes int64) *ProfilePictureService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPictureBytes
	}
	return &ProfilePictureService{
		users:    users,
		storage:  st,
		events:   events,
		maxBytes: maxBytes,
	}
}

// MaxBytes returns the configured upload size cap.
func (s *ProfilePictureService) MaxBytes() int64 {
	return s.maxBytes
}

// Upload stores a validated picture and returns its reference path.
// The user row is checked first so a bad userId never leaves an orphaned
// object behind.
func (s *ProfilePictureService) Upload(ctx context.Context, userID int64, data []byte, filename, contentType string) (string, error) {
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.maxBytes)
	}

	ext := strings.ToLower(path.Ext(filename))
	expected, ok := allowedImageTypes[ext]
	if !ok {
		return "", fmt.Errorf("%w: only image files are allowed", ErrUnsupportedMedia)
	}
	declared := normalizeContentType(contentType)
	if declared != expected && !equivalentImageType(declared, expected) {
		return "", fmt.Errorf("%w: only image files are allowed", ErrUnsupportedMedia)
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return "", err
	}

	key := uniqueObjectKey(ext)
	if err := s.storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), expected); err != nil {
		return "", err
	}

	refPath := "/uploads/" + key
	if err := s.users.SetProfilePicture(ctx, userID, refPath); err != nil {
		return "", err
	}

	s.events.ProfilePictureUploaded(ctx, userID)
	return refPath, nil
}

// uniqueObjectKey builds a collision-free object name from the current time
// and a random component, preserving the original extension.
func uniqueObjectKey(ext string) string {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000_000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("profile-%d-%d%s", time.Now().UnixMilli(), suffix, ext)
}

func normalizeContentType(contentType string) string {
	contentType = strings.TrimSpace(strings.ToLower(contentType))
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return contentType
}

// equivalentImageType accepts the common jpg/jpeg MIME spellings.
func equivalentImageType(declared, expected string) bool {
	return expected == "image/jpeg" && declared == "image/jpg"
}
