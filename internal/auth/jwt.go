package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Kerhoff/MessBoT/internal/models"
)

const (
	// MinSecretLength is the shortest accepted HMAC secret
	MinSecretLength = 32

	// LinkTokenTTL bounds how long a Telegram link token stays usable
	LinkTokenTTL = 15 * time.Minute

	accessAudience = "messbot-api"
	linkAudience   = "messbot-telegram-link"
)

// ErrInvalidToken is returned for malformed, expired or tampered tokens
var ErrInvalidToken = errors.New("invalid token")

// Claims represents JWT claims of an authenticated user
type Claims struct {
	UserID string      `json:"userId"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Manager handles JWT token creation and validation
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager creates a token manager signing with HS256
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("JWT secret must be at least %d characters", MinSecretLength)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("JWT TTL must be positive")
	}

	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// GenerateToken creates a signed access token for user
func (m *Manager) GenerateToken(user *models.User) (string, error) {
	return m.sign(user, accessAudience, m.ttl)
}

// ValidateToken verifies an access token and returns its claims
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	return m.parse(tokenString, accessAudience)
}

// GenerateLinkToken creates a short-lived token that binds a Telegram chat
// to user when sent to the bot.
func (m *Manager) GenerateLinkToken(user *models.User) (string, error) {
	return m.sign(user, linkAudience, LinkTokenTTL)
}

// ValidateLinkToken verifies a Telegram link token
func (m *Manager) ValidateLinkToken(tokenString string) (*Claims, error) {
	return m.parse(tokenString, linkAudience)
}

func (m *Manager) sign(user *models.User, audience string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (m *Manager) parse(tokenString, audience string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(m.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
