package shop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harikrish-25/period-care/internal/auth"
	"github.com/Harikrish-25/period-care/internal/models"
	"github.com/Harikrish-25/period-care/internal/store"
)

func newAccounts(s *store.Store, n Notifier) (*Accounts, *auth.Tokens) {
	tokens := auth.NewTokens([]byte("test-secret-test-secret-test-sec"), 30*time.Minute, 7*24*time.Hour)
	return NewAccounts(s, tokens, n, nil), tokens
}

func registration(email string) Registration {
	return Registration{Name: "Asha", Email: email, Mobile: "+919876543210", Address: "12 MG Road", Password: "secret123"}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s := openTempStore(t)
	fn := &fakeNotifier{}
	accounts, tokens := newAccounts(s, fn)

	u, err := accounts.Register(ctx, registration(" Asha@Example.com "))
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "secret123", u.Password)
	require.Len(t, fn.welcomed, 1)
	assert.Equal(t, "Asha@Example.com", fn.welcomed[0].Email)

	_, err = accounts.Register(ctx, registration("asha@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	pair, err := accounts.Login(ctx, "asha@example.com", "secret123")
	require.NoError(t, err)
	sub, err := tokens.Verify(pair.AccessToken, auth.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "Asha@Example.com", sub)

	_, err = accounts.Login(ctx, "asha@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = accounts.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrUnauthorized)

	refreshed, err := accounts.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	_, err = accounts.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRegisterValidation(t *testing.T) {
	s := openTempStore(t)
	accounts, _ := newAccounts(s, &fakeNotifier{})

	tests := map[string]func(*Registration){
		"no name":        func(r *Registration) { r.Name = "" },
		"bad email":      func(r *Registration) { r.Email = "not-an-email" },
		"no mobile":      func(r *Registration) { r.Mobile = " " },
		"short password": func(r *Registration) { r.Password = "123" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			reg := registration("asha@example.com")
			mutate(&reg)
			_, err := accounts.Register(context.Background(), reg)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestInactiveUserCannotLogin(t *testing.T) {
	ctx := context.Background()
	s := openTempStore(t)
	accounts, _ := newAccounts(s, &fakeNotifier{})
	u, err := accounts.Register(ctx, registration("asha@example.com"))
	require.NoError(t, err)
	pair, err := accounts.Login(ctx, "asha@example.com", "secret123")
	require.NoError(t, err)

	toggled, err := accounts.ToggleActive(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	_, err = accounts.Login(ctx, "asha@example.com", "secret123")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = accounts.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = accounts.ToggleActive(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	s := openTempStore(t)
	accounts, _ := newAccounts(s, &fakeNotifier{})
	u, err := accounts.Register(ctx, registration("asha@example.com"))
	require.NoError(t, err)

	addr := " 4 Park Street "
	updated, err := accounts.UpdateProfile(ctx, u.ID, ProfileUpdate{Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, "4 Park Street", updated.Address)
	assert.Equal(t, "Asha", updated.Name)

	blank := ""
	_, err = accounts.UpdateProfile(ctx, u.ID, ProfileUpdate{Name: &blank})
	assert.ErrorIs(t, err, ErrInvalidInput)

	stored, err := accounts.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "4 Park Street", stored.Address)

	// The password hash survives profile edits.
	_, err = accounts.Login(ctx, "asha@example.com", "secret123")
	assert.NoError(t, err)
}

func TestCreateAdmin(t *testing.T) {
	ctx := context.Background()
	s := openTempStore(t)
	fn := &fakeNotifier{}
	accounts, _ := newAccounts(s, fn)

	admin, err := accounts.CreateAdmin(ctx, registration("admin@example.com"))
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
	assert.Empty(t, fn.welcomed)

	byEmail, err := accounts.ByEmail(ctx, "ADMIN@example.com")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, byEmail.ID)

	users, err := accounts.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
