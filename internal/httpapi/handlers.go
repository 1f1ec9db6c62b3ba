package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"github.com/dynamic-tournament/live-bracket/internal/auth"
	"github.com/dynamic-tournament/live-bracket/internal/live"
	"github.com/dynamic-tournament/live-bracket/internal/session"
	"github.com/dynamic-tournament/live-bracket/internal/store"
)

// Healthz reports process liveness only; it does not probe Store or
// any LiveBracket.
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AuthToken    string `json:"auth_token"`
	RefreshToken string `json:"refresh_token"`
}

// Login exchanges a username/password pair for an Auth/Refresh token
// pair (spec §4.7). It is a convenience endpoint: the static user table
// it checks against is an external collaborator input, not something
// this package manages.
func Login(login *auth.Login) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		authToken, refreshToken, err := login.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			http.Error(w, "login failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(loginResponse{AuthToken: authToken, RefreshToken: refreshToken})
	}
}

// Matches upgrades GET /v3/tournaments/:tid/brackets/:bid/matches to a
// WebSocket connection, acquires the addressed LiveBracket, and runs a
// Session over it for the connection's lifetime (spec §6.1).
func Matches(registry *live.Registry, signer *auth.Signer, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Upgrade") != "websocket" {
			http.Error(w, "upgrade required", http.StatusUpgradeRequired)
			return
		}

		key, ok := parseBracketKey(r)
		if !ok {
			http.Error(w, "tournament or bracket not found", http.StatusNotFound)
			return
		}

		handle, err := registry.Acquire(r.Context(), key)
		if err != nil {
			logger.Error("failed to acquire live bracket",
				"tournament_id", key.TournamentID,
				"bracket_id", key.BracketID,
				"error", err)
			http.Error(w, "bracket unavailable", http.StatusInternalServerError)
			return
		}
		defer registry.Release(handle)

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "session ended")

		sess := session.New(conn, handle.Bracket(), signer, logger)
		sess.Run(r.Context())
		conn.Close(websocket.StatusNormalClosure, "bye")
	}
}

func parseBracketKey(r *http.Request) (store.BracketKey, bool) {
	tid, err := strconv.ParseUint(chi.URLParam(r, "tid"), 10, 64)
	if err != nil {
		return store.BracketKey{}, false
	}
	bid, err := strconv.ParseUint(chi.URLParam(r, "bid"), 10, 64)
	if err != nil {
		return store.BracketKey{}, false
	}
	return store.BracketKey{TournamentID: tid, BracketID: bid}, true
}
