package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/sageverse/tree/internal/httpserver/deps"
	"github.com/sageverse/tree/internal/httpserver/handlers"
)

func init() { Register(registerPublic) }

func registerPublic(r chi.Router, d deps.Deps) {
	r.Get("/u/{ownerID}", handlers.PublicProfile(d))
}
