package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/MessBoT/internal/apperr"
	"github.com/Kerhoff/MessBoT/internal/auth"
	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/repository"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// RegisterInput carries the fields of a new account
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
	Phone    *string
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// LinkToken is a short-lived token the user sends to the bot
type LinkToken struct {
	Token     string    `json:"token"`
	Command   string    `json:"command"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Register creates an account and signs an access token for it
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.Validation("Name, email, and password are required")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, apperr.Validation(
			fmt.Sprintf("Password must be at least %d characters", MinPasswordLength),
			apperr.FieldError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", MinPasswordLength)},
		)
	}

	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !in.Role.Valid() {
		return nil, apperr.Validation("Invalid role. Must be one of: user, mess_owner, admin")
	}

	existing, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, s.internal("lookup user by email", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("User with this email already exists")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, s.internal("hash password", err)
	}

	user, err := s.Users.Create(ctx, &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Phone:        in.Phone,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("User with this email already exists")
		}
		return nil, s.internal("create user", err)
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, s.internal("generate token", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("Registered new user")

	return &AuthResult{User: user, Token: token}, nil
}

// Login checks credentials and signs an access token
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperr.Validation("Email and password are required")
	}

	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, s.internal("lookup user by email", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, s.internal("generate token", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Profile returns the authenticated user's account
func (s *Service) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, s.internal("get user", err)
	}
	if user == nil {
		return nil, apperr.Unauthorized("User not found")
	}
	return user, nil
}

// TelegramLinkToken issues a token that links a Telegram chat to userID
func (s *Service) TelegramLinkToken(ctx context.Context, userID string) (*LinkToken, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateLinkToken(user)
	if err != nil {
		return nil, s.internal("generate link token", err)
	}

	return &LinkToken{
		Token:     token,
		Command:   "/start " + token,
		ExpiresAt: s.now().Add(auth.LinkTokenTTL),
	}, nil
}

// LinkTelegram binds chatID to the account named by a link token
func (s *Service) LinkTelegram(ctx context.Context, token string, chatID int64) (*models.User, error) {
	claims, err := s.tokens.ValidateLinkToken(token)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired link token")
	}

	user, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, s.internal("get user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	if err := s.Users.SetTelegramChatID(ctx, user.ID, chatID); err != nil {
		return nil, s.internal("link telegram chat", err)
	}
	user.TelegramChatID = &chatID

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"chat_id": chatID,
	}).Info("Linked Telegram chat")

	return user, nil
}

// UserByTelegramChat returns the account linked to chatID, or nil
func (s *Service) UserByTelegramChat(ctx context.Context, chatID int64) (*models.User, error) {
	user, err := s.Users.GetByTelegramChatID(ctx, chatID)
	if err != nil {
		return nil, s.internal("get user by telegram chat", err)
	}
	return user, nil
}
