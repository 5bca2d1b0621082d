package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaultdeck/vaultdeck/internal/auth"
	"github.com/vaultdeck/vaultdeck/internal/domain/user"
	"github.com/vaultdeck/vaultdeck/internal/repo/memory"
)

func newAuthenticator() (*auth.Authenticator, *memory.UsersRepo) {
	store := memory.NewUsersRepo()
	mgr := auth.NewManager("test-secret", time.Hour)

	return auth.NewAuthenticator(store, mgr), store
}

func TestRegisterAndLogin(t *testing.T) {
	a, _ := newAuthenticator()
	ctx := context.Background()

	u, err := a.Register(ctx, "alice@example.com", "correct horse battery")

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, user.RoleUser, u.Role)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "correct horse battery", u.PasswordHash, "hash must not be the plaintext")

	token, logged, err := a.Login(ctx, "alice@example.com", "correct horse battery")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, u.ID, logged.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	a, _ := newAuthenticator()
	ctx := context.Background()

	_, err := a.Register(ctx, "alice@example.com", "password-one")
	require.NoError(t, err)

	_, err = a.Register(ctx, "alice@example.com", "password-two")

	assert.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestRegister_Concurrent(t *testing.T) {
	a, _ := newAuthenticator()
	ctx := context.Background()

	const n = 8

	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			_, errs[i] = a.Register(ctx, "race@example.com", "some-password")
		}(i)
	}

	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, user.ErrEmailTaken)
	}

	// the store's uniqueness guarantee admits exactly one winner
	assert.Equal(t, 1, ok)
}

func TestLogin_InvalidCredentialsIndistinguishable(t *testing.T) {
	a, _ := newAuthenticator()
	ctx := context.Background()

	_, err := a.Register(ctx, "alice@example.com", "the-real-password")
	require.NoError(t, err)

	_, _, unknownErr := a.Login(ctx, "nobody@example.com", "whatever")
	_, _, wrongErr := a.Login(ctx, "alice@example.com", "not-the-password")

	assert.ErrorIs(t, unknownErr, auth.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, auth.ErrInvalidCredentials)

	// a caller probing for registered emails learns nothing from the error
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestResolve_VanishedIdentity(t *testing.T) {
	a, store := newAuthenticator()
	ctx := context.Background()

	u, err := a.Register(ctx, "alice@example.com", "some-password")
	require.NoError(t, err)

	resolved, err := a.Resolve(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, resolved.ID)

	store.Delete(ctx, u.ID)

	_, err = a.Resolve(ctx, u.ID)

	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}
