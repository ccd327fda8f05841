package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"caja/internal/core"
	"caja/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles account registration and credential checks.
type UserService struct {
	storage *storage.SQLiteRepository
}

func NewUserService(storage *storage.SQLiteRepository) *UserService {
	return &UserService{storage: storage}
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (core.User, error) {
	u := core.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: time.Now().UTC(),
	}
	if err := u.Validate(); err != nil {
		return core.User{}, err
	}
	if len(password) < 6 {
		return core.User{}, core.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)

	if err := s.storage.CreateUser(ctx, u); err != nil {
		return core.User{}, err
	}
	return u, nil
}

// Login verifies the credentials. A wrong email and a wrong password
// produce the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (core.User, error) {
	u, err := s.storage.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.User{}, core.ErrInvalidCredentials
		}
		return core.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return core.User{}, core.ErrInvalidCredentials
	}
	return u, nil
}
