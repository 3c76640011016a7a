// Package auth handles operator accounts: password hashing, login and
// bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"hotel-frontdesk-backend/internal/model"
	"hotel-frontdesk-backend/internal/store"
)

var (
	// ErrInvalidCredentials is returned by Login for any unknown name or bad password.
	ErrInvalidCredentials = errors.New("invalid user name or password")
	// ErrRootProtected is returned when trying to delete the root user.
	ErrRootProtected = errors.New("the root user cannot be deleted")
	// ErrWeakPassword is returned for empty passwords.
	ErrWeakPassword = errors.New("password must not be empty")
)

// Service manages users.
type Service struct {
	store  store.UserStore
	issuer *Issuer
	cost   int
}

// NewService creates a user Service.
func NewService(st store.UserStore, issuer *Issuer, bcryptCost int) *Service {
	return &Service{store: st, issuer: issuer, cost: bcryptCost}
}

// Issuer exposes the token issuer for middleware.
func (s *Service) Issuer() *Issuer { return s.issuer }

// Login checks the credentials and issues a token.
func (s *Service) Login(ctx context.Context, name, password string) (Token, error) {
	u, err := s.store.GetUserByName(ctx, strings.TrimSpace(name))
	if errors.Is(err, store.ErrNotFound) {
		return Token{}, ErrInvalidCredentials
	}
	if err != nil {
		return Token{}, err
	}
	if !VerifyPassword(u.PasswordHash, password) {
		return Token{}, ErrInvalidCredentials
	}
	return s.issuer.Issue(*u)
}

// EnsureRoot creates the root user with password if it does not exist yet.
func (s *Service) EnsureRoot(ctx context.Context, password string) error {
	_, err := s.store.GetUserByName(ctx, model.RootUserName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if password == "" {
		log.Println("Warning: no root user exists and auth.root_password is empty; user administration is unavailable.")
		return nil
	}
	if _, err := s.AddUser(ctx, model.RootUserName, password); err != nil {
		return fmt.Errorf("create root user: %w", err)
	}
	log.Println("Root user created.")
	return nil
}

// AddUser creates an operator account.
func (s *Service) AddUser(ctx context.Context, name, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("user name must not be empty")
	}
	if password == "" {
		return nil, ErrWeakPassword
	}
	hash, err := HashPassword(password, s.cost)
	if err != nil {
		return nil, err
	}
	u := &model.User{Name: name, PasswordHash: hash}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword replaces the user's password.
func (s *Service) ChangePassword(ctx context.Context, id int64, password string) error {
	if password == "" {
		return ErrWeakPassword
	}
	hash, err := HashPassword(password, s.cost)
	if err != nil {
		return err
	}
	return s.store.UpdatePassword(ctx, id, hash)
}

// DeleteUser removes an operator; root stays.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.ID == id && u.IsRoot() {
			return ErrRootProtected
		}
	}
	return s.store.DeleteUser(ctx, id)
}

// ListUsers returns all operators.
func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.store.ListUsers(ctx)
}
