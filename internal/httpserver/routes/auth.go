package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/sageverse/tree/internal/httpserver/deps"
	"github.com/sageverse/tree/internal/httpserver/handlers"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signin", handlers.SignIn(d))
		r.Post("/signup", handlers.SignUp(d))
		r.Post("/signout", handlers.SignOut(d))
		r.Get("/confirm", handlers.Confirm(d))
	})
}
