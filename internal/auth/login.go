package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dynamic-tournament/live-bracket/internal/store"
)

// ErrInvalidCredentials is returned for both "no such user" and "wrong
// password" — the two cases must be indistinguishable to a caller to
// avoid leaking which usernames exist.
var ErrInvalidCredentials = errors.New("auth: invalid username or password")

const (
	defaultAuthTTL    = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// Login checks username/password against store's static user table and
// issues a fresh Auth/Refresh token pair on success (spec §4.7).
type Login struct {
	store  store.Store
	signer *Signer
	now    func() time.Time
}

// NewLogin wires a Login against store and signer. now defaults to
// time.Now; tests may override it.
func NewLogin(st store.Store, signer *Signer) *Login {
	return &Login{store: st, signer: signer, now: time.Now}
}

// Authenticate verifies username/password and returns a fresh token
// pair. Password comparison is constant-time via bcrypt; the
// not-found and wrong-password paths both return ErrInvalidCredentials.
func (l *Login) Authenticate(ctx context.Context, username, password string) (authToken, refreshToken string, err error) {
	user, err := l.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	now := l.now()
	return l.signer.IssuePair(user.ID, 0, now, defaultAuthTTL, defaultRefreshTTL)
}

// Refresh exchanges a valid Refresh token for a new Auth/Refresh pair,
// without re-checking the password.
func (l *Login) Refresh(refreshToken string) (authToken, newRefreshToken string, err error) {
	now := l.now()
	claims, err := l.signer.Verify(refreshToken, TokenRefresh, now)
	if err != nil {
		return "", "", err
	}
	return l.signer.IssuePair(claims.Sub, claims.Flags, now, defaultAuthTTL, defaultRefreshTTL)
}
