package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/MessBoT/internal/apperr"
	"github.com/Kerhoff/MessBoT/internal/models"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, RegisterInput{Name: " Kiran ", Email: "Kiran@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Kiran", res.User.Name)
	assert.Equal(t, "kiran@example.com", res.User.Email)
	assert.Equal(t, models.RoleUser, res.User.Role)
	assert.NotEqual(t, "secret1", res.User.PasswordHash)
	assert.NotEmpty(t, res.Token)

	claims, err := f.svc.tokens.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   RegisterInput
		kind apperr.Kind
	}{
		{"missing name", RegisterInput{Email: "x@example.com", Password: "secret1"}, apperr.KindValidation},
		{"short password", RegisterInput{Name: "X", Email: "x@example.com", Password: "123"}, apperr.KindValidation},
		{"unknown role", RegisterInput{Name: "X", Email: "x@example.com", Password: "secret1", Role: "chef"}, apperr.KindValidation},
		{"duplicate email", RegisterInput{Name: "X", Email: "asha@example.com", Password: "secret1"}, apperr.KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Register(ctx, tt.in)
			requireKind(t, err, tt.kind)
		})
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, RegisterInput{Name: "Kiran", Email: "kiran@example.com", Password: "secret1", Role: models.RoleMessOwner})
	require.NoError(t, err)

	res, err := f.svc.Login(ctx, "kiran@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleMessOwner, res.User.Role)

	_, err = f.svc.Login(ctx, "kiran@example.com", "wrong-password")
	requireKind(t, err, apperr.KindUnauthorized)

	_, err = f.svc.Login(ctx, "nobody@example.com", "secret1")
	requireKind(t, err, apperr.KindUnauthorized)

	_, err = f.svc.Login(ctx, "", "")
	requireKind(t, err, apperr.KindValidation)
}

func TestProfile(t *testing.T) {
	f := newFixture(t)

	user, err := f.svc.Profile(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)

	_, err = f.svc.Profile(context.Background(), "missing")
	requireKind(t, err, apperr.KindUnauthorized)
}

func TestTelegramLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	link, err := f.svc.TelegramLinkToken(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "/start "+link.Token, link.Command)

	linked, err := f.svc.LinkTelegram(ctx, link.Token, 4242)
	require.NoError(t, err)
	assert.True(t, linked.IsTelegramLinked())

	found, err := f.svc.UserByTelegramChat(ctx, 4242)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, f.user.ID, found.ID)

	_, err = f.svc.LinkTelegram(ctx, "not-a-token", 4242)
	requireKind(t, err, apperr.KindUnauthorized)

	none, err := f.svc.UserByTelegramChat(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, none)
}
