package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vaultdeck/vaultdeck/internal/domain/user"
	"github.com/vaultdeck/vaultdeck/internal/security"
)

var (
	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike. Callers must not be able to tell which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated means the token's subject no longer names a live
	// identity. A token is only as valid as the user it points at.
	ErrUnauthenticated = errors.New("unauthenticated")
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, email, passwordHash, username, role string) (user.User, error)
}

// Authenticator orchestrates registration and login over the user store,
// the password hasher and the token manager.
type Authenticator struct {
	store UserStore
	jwt   *Manager
}

func NewAuthenticator(store UserStore, jwt *Manager) *Authenticator {
	return &Authenticator{store: store, jwt: jwt}
}

func (a *Authenticator) Register(ctx context.Context, email, password string) (user.User, error) {
	exists, err := a.store.ExistsByEmail(ctx, email)

	if err != nil {
		return user.User{}, fmt.Errorf("register: %w", err)
	}

	if exists {
		return user.User{}, user.ErrEmailTaken
	}

	hash, err := security.HashPassword(password)

	if err != nil {
		return user.User{}, fmt.Errorf("register: %w", err)
	}

	// username defaults to the email local part
	username := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		username = email[:at]
	}

	u, err := a.store.Create(ctx, email, hash, username, user.RoleUser)

	if err != nil {
		// two signups can pass the existence check at once; the unique
		// index rejects the loser and we report it the same way
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, fmt.Errorf("register: %w", err)
	}

	return u, nil
}

func (a *Authenticator) Login(ctx context.Context, email, password string) (string, user.User, error) {
	u, err := a.store.GetByEmail(ctx, email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", user.User{}, ErrInvalidCredentials
		}
		return "", user.User{}, fmt.Errorf("login: %w", err)
	}

	if !security.CheckPassword(u.PasswordHash, password) {
		return "", user.User{}, ErrInvalidCredentials
	}

	token, err := a.jwt.GenerateAccessToken(u.ID, u.Email, u.Role)

	if err != nil {
		return "", user.User{}, fmt.Errorf("login: %w", err)
	}

	return token, u, nil
}

// Resolve maps a verified token subject back to a live identity. It is called
// on every authenticated request, never cached across requests.
func (a *Authenticator) Resolve(ctx context.Context, subject string) (user.User, error) {
	u, err := a.store.GetByID(ctx, subject)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrUnauthenticated
		}
		return user.User{}, fmt.Errorf("resolve: %w", err)
	}

	return u, nil
}
