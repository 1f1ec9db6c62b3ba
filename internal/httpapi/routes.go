// Package httpapi wires the chi router for the live-bracket upgrade
// endpoint, a health check, and a login convenience endpoint over
// internal/auth.
//
// Grounded on cmd/web/routes.go's newRouter: chi.NewRouter plus one
// handler-factory function per route taking its collaborators as
// closure arguments, rather than a method-per-route controller type.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dynamic-tournament/live-bracket/internal/auth"
	"github.com/dynamic-tournament/live-bracket/internal/live"
)

// NewRouter builds the HTTP handler serving every in-scope endpoint.
// Full tournament/entrant/role CRUD is out of scope and lives behind a
// separate collaborator service, not this router.
func NewRouter(registry *live.Registry, login *auth.Login, signer *auth.Signer, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Post("/v3/auth/login", Login(login))
	r.Get("/v3/tournaments/{tid}/brackets/{bid}/matches", Matches(registry, signer, logger))

	return r
}
