package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/sageverse/tree/internal/httpserver/deps"
	"github.com/sageverse/tree/internal/httpserver/handlers"
	"github.com/sageverse/tree/internal/httpserver/mw"
)

func init() { Register(registerReload) }

// /reload is operator-only: it must pass both the IP and Host checks.
func registerReload(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))
		r.Post("/reload", handlers.Reload(d))
	})
}
