package memory

import (
	"context"
	"fmt"

	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/repository"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return nil, fmt.Errorf("failed to create user: %w (users_email_key)", repository.ErrDuplicate)
		}
	}

	created := *user
	created.ID = newID()
	created.CreatedAt = r.s.tick()
	created.UpdatedAt = created.CreatedAt
	r.s.users[created.ID] = created

	out := created
	return &out, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepository) GetByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.TelegramChatID != nil && *u.TelegramChatID == chatID {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepository) SetTelegramChatID(ctx context.Context, userID string, chatID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[userID]
	if !ok {
		return fmt.Errorf("user with ID %s not found", userID)
	}

	now := r.s.tick()
	for id, u := range r.s.users {
		if id != userID && u.TelegramChatID != nil && *u.TelegramChatID == chatID {
			u.TelegramChatID = nil
			u.UpdatedAt = now
			r.s.users[id] = u
		}
	}

	linked := chatID
	user.TelegramChatID = &linked
	user.UpdatedAt = now
	r.s.users[userID] = user
	return nil
}

// summaryOf returns the contact card of a stored user. Callers hold the lock.
func (s *Store) summaryOf(userID string) *models.UserSummary {
	u, ok := s.users[userID]
	if !ok {
		return &models.UserSummary{ID: userID}
	}
	return u.Summary()
}
