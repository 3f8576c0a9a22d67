package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/igsuryas/raksha-backend/internal/errs"
	"github.com/igsuryas/raksha-backend/internal/models"
	"github.com/igsuryas/raksha-backend/internal/store"
	"github.com/igsuryas/raksha-backend/pkg/utils"
)

// UserService handles account creation and credential checks. The core
// components only consume it for identity lookups.
type UserService struct {
	users store.UserStore
}

func NewUserService(users store.UserStore) *UserService {
	return &UserService{users: users}
}

// Signup registers a user with an Argon2id password hash. Returns
// errs.ErrAlreadyExists when the email or mobile is taken.
func (s *UserService) Signup(ctx context.Context, name, email, mobile, password string) (*models.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		Mobile:       mobile,
		PasswordHash: hash,
		Status:       models.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Signin verifies credentials against the email-or-mobile identifier.
func (s *UserService) Signin(ctx context.Context, identifier, password string) (*models.User, error) {
	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.ErrInvalidCredentials
	}
	if user.Status != models.UserStatusActive {
		return nil, errs.ErrAccountInactive
	}

	ok, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, errs.ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		log.Printf("failed to stamp last login for user %s: %v", user.ID, err)
	}
	return user, nil
}

// Get returns a user by id, or errs.ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.ErrUserNotFound
	}
	return user, nil
}
