package handlers_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spy-mission/apiserver/config"
	"github.com/spy-mission/apiserver/internal/handlers"
	"github.com/spy-mission/apiserver/internal/services"
	"github.com/spy-mission/apiserver/internal/storage"
	"github.com/spy-mission/apiserver/internal/store"
	"github.com/spy-mission/apiserver/types"
)

// fakeUserRepo is an in-memory UserRepository with the users table's
// uniqueness rules.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[int64]types.User{}}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email || user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return types.User{}, store.ErrDuplicate
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) SetProfilePicture(ctx context.Context, id int64, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.ProfilePicture = path
	r.users[id] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// newTestRouter builds the /api surface over in-memory dependencies.
func newTestRouter(t *testing.T) (*chi.Mux, *fakeUserRepo) {
	t.Helper()

	repo := newFakeUserRepo()
	client, err := storage.NewLocalClient(config.UploadsConfig{Dir: filepath.Join(t.TempDir(), "uploads")})
	if err != nil {
		t.Fatalf("NewLocalClient: %v", err)
	}
	st := storage.NewStorage(client)
	if err := st.EnsureBucket(context.Background()); err != nil {
		t.Fatalf("EnsureBucket: %v", err)
	}

	userService := services.NewUserService(repo, st, nil)
	pictureService := services.NewProfilePictureService(repo, st, nil, services.DefaultMaxPictureBytes)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		handlers.AccountRouter(r, userService)
		handlers.ProfilePictureRouter(r, pictureService)
		handlers.CipherRouter(r)
	})
	return router, repo
}
