package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/sageverse/tree/internal/httpserver/deps"
	"github.com/sageverse/tree/internal/httpserver/handlers"
)

// Registrar adds one area of the site (auth, dashboard, public pages,
// operator endpoints) to the router.
type Registrar func(r chi.Router, d deps.Deps)

var registrars []Registrar

// Register is called from init in each route file.
func Register(reg Registrar) {
	registrars = append(registrars, reg)
}

// Mount installs every registered area on r. Unknown paths and methods
// land back on "/", which shows the auth form or the dashboard.
func Mount(r *chi.Mux, d deps.Deps) {
	for _, reg := range registrars {
		reg(r, d)
	}
	r.NotFound(handlers.RedirectHome)
	r.MethodNotAllowed(handlers.RedirectHome)
}
