package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dynamic-tournament/live-bracket/internal/auth"
	"github.com/dynamic-tournament/live-bracket/internal/bracket"
	"github.com/dynamic-tournament/live-bracket/internal/bracket/system"
	"github.com/dynamic-tournament/live-bracket/internal/httpapi"
	"github.com/dynamic-tournament/live-bracket/internal/live"
	"github.com/dynamic-tournament/live-bracket/internal/store"
	"github.com/dynamic-tournament/live-bracket/internal/store/memstore"
)

type fixedEntrants struct{}

func (fixedEntrants) EntrantsFor(ctx context.Context, key store.BracketKey) (uint64, []bracket.EntrantRef, bracket.Options, error) {
	return system.SystemIDSingleElimination, []bracket.EntrantRef{1, 2, 3, 4}, nil, nil
}

func newTestRouter(t *testing.T) (http.Handler, *store.User, string) {
	t.Helper()
	st := memstore.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := store.User{ID: 1, Username: "alice", PasswordHash: string(hash)}
	st.AddUser(user)

	signer := auth.NewSigner(jwt.SigningMethodHS256, []byte("auth-secret"), []byte("refresh-secret"), "live-bracket")
	login := auth.NewLogin(st, signer)
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := live.NewRegistry(st, system.NewRegistry(), fixedEntrants{}, discard, 0)

	router := httpapi.NewRouter(registry, login, signer, discard)
	return router, &user, "correct-horse"
}

func TestHealthz_ReturnsOK(t *testing.T) {
	router, _, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_ValidCredentialsReturnsTokenPair(t *testing.T) {
	router, user, password := newTestRouter(t)
	body, _ := json.Marshal(map[string]string{"username": user.Username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/v3/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		AuthToken    string `json:"auth_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AuthToken)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestLogin_WrongPasswordReturnsUnauthorized(t *testing.T) {
	router, user, _ := newTestRouter(t)
	body, _ := json.Marshal(map[string]string{"username": user.Username, "password": "nope"})
	req := httptest.NewRequest(http.MethodPost, "/v3/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMatches_MissingUpgradeHeaderIs426(t *testing.T) {
	router, _, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/v3/tournaments/1/brackets/1/matches", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUpgradeRequired, rec.Code)
}

func TestMatches_NonNumericIDsAre404(t *testing.T) {
	router, _, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/v3/tournaments/abc/brackets/1/matches", nil)
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Connection", "Upgrade")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
