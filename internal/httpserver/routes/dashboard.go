package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/sageverse/tree/internal/httpserver/deps"
	"github.com/sageverse/tree/internal/httpserver/handlers"
	"github.com/sageverse/tree/internal/httpserver/mw"
)

func init() { Register(registerDashboard) }

func registerDashboard(r chi.Router, d deps.Deps) {
	r.Get("/", handlers.Dashboard(d))

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireSession)
		r.Get("/edit", handlers.EditForm(d))
		r.Post("/edit", handlers.EditSubmit(d))
	})
}
