package service

import (
	"context"
	"errors"
	"strings"

	"collab-poll-backend/models"
	"collab-poll-backend/store"

	"gorm.io/gorm"
)

// UserService manages anonymous guest identities. Identity is resolved once
// at the request boundary (cookie) and threaded explicitly into the engine;
// this service never reads ambient request state.
type UserService struct {
	store store.PollStore
}

func NewUserService(s store.PollStore) *UserService {
	return &UserService{store: s}
}

// CreateGuest mints a new anonymous user with an empty display name.
func (s *UserService) CreateGuest(ctx context.Context) (*models.User, error) {
	return s.store.CreateUser(ctx)
}

// GetUser fetches a user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.FindUser(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// SetUserName updates the display name shown next to the user's votes.
func (s *UserService) SetUserName(ctx context.Context, id, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingName
	}

	err := s.store.UpdateUserName(ctx, id, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.store.FindUser(ctx, id)
}
