package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spy-mission/apiserver/internal/storage"
	"github.com/spy-mission/apiserver/internal/store"
	"github.com/spy-mission/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor the service has always used.
const bcryptCost = 10

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	SetProfilePicture(ctx context.Context, id int64, path string) error
	Delete(ctx context.Context, id int64) error
}

// UserService encapsulates account use-cases.
type UserService struct {
	repo     UserRepository
	pictures *storage.Storage
	events   *EventPublisher
}

func NewUserService(repo UserRepository, pictures *storage.Storage, events *EventPublisher) *UserService {
	return &UserService{repo: repo, pictures: pictures, events: events}
}

// Signup validates the request, hashes the password and inserts a new row.
// The existence pre-check is a fast fail only; the unique constraints on
// username and email are the authoritative guard against concurrent signups.
func (s *UserService) Signup(ctx context.Context, username, email, password, phone string) (types.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return types.User{}, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}

	exists, err := s.repo.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return types.User{}, err
	}
	if exists {
		return types.User{}, store.ErrDuplicate
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return types.User{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        strings.TrimSpace(phone),
	})
	if err != nil {
		return types.User{}, err
	}

	s.events.UserSignedUp(ctx, user.ID)
	return user, nil
}

// Login verifies credentials and returns the matching user. Unknown email
// and password mismatch both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (types.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return types.User{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete removes the user row and, best effort, the stored avatar object.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.pictures != nil && user.ProfilePicture != "" {
		key := strings.TrimPrefix(user.ProfilePicture, "/uploads/")
		_ = s.pictures.Delete(ctx, key)
	}
	return nil
}
