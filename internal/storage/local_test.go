package storage_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spy-mission/apiserver/config"
	"github.com/spy-mission/apiserver/internal/storage"
)

func newLocalStorage(t *testing.T) (*storage.Storage, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	client, err := storage.NewLocalClient(config.UploadsConfig{Dir: dir})
	if err != nil {
		t.Fatalf("NewLocalClient: %v", err)
	}
	st := storage.NewStorage(client)
	if err := st.EnsureBucket(context.Background()); err != nil {
		t.Fatalf("EnsureBucket: %v", err)
	}
	return st, dir
}

func TestLocalEnsureBucketCreatesDir(t *testing.T) {
	_, dir := newLocalStorage(t)

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat content dir: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("expected content directory")
	}
}

func TestLocalPut(t *testing.T) {
	st, dir := newLocalStorage(t)
	data := []byte("fake png bytes")

	err := st.Put(context.Background(), "profile-1-2.png", bytes.NewReader(data), int64(len(data)), "image/png")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	stored, err := os.ReadFile(filepath.Join(dir, "profile-1-2.png"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(stored, data) {
		t.Fatal("stored bytes differ from input")
	}
}

func TestLocalPutRejectsPathEscape(t *testing.T) {
	st, _ := newLocalStorage(t)

	err := st.Put(context.Background(), "../escape.png", bytes.NewReader([]byte("x")), 1, "image/png")
	if err == nil {
		t.Fatal("expected error for key escaping the content directory")
	}
}

func TestLocalDelete(t *testing.T) {
	st, dir := newLocalStorage(t)
	ctx := context.Background()

	if err := st.Put(ctx, "profile-3-4.gif", bytes.NewReader([]byte("gif")), 3, "image/gif"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := st.Delete(ctx, "profile-3-4.gif"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "profile-3-4.gif")); !os.IsNotExist(err) {
		t.Fatal("expected file to be removed")
	}

	// Deleting a missing key is not an error.
	if err := st.Delete(ctx, "profile-3-4.gif"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
}
