package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sageverse/tree/internal/backend"
	"github.com/sageverse/tree/internal/httpserver/deps"
	"github.com/sageverse/tree/internal/logger"
	"github.com/sageverse/tree/internal/view"
)

// PublicProfile renders /u/{ownerID} for anyone. It never creates rows.
func PublicProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := chi.URLParam(r, "ownerID")

		page, err := d.Public.Fetch(r.Context(), ownerID)
		switch {
		case errors.Is(err, backend.ErrNotFound):
			d.Renderer.Message(w, http.StatusNotFound, view.NotFound, msgUserNotFound)
			return
		case err != nil:
			d.Logger.Error("public profile load failed", logger.String("owner_id", ownerID), logger.Error(err))
			d.Renderer.Message(w, http.StatusInternalServerError, view.Error, msgProfileLoad)
			return
		}

		d.Renderer.Render(w, http.StatusOK, view.Public, view.PublicPage{
			Profile: page.Profile,
			Links:   page.Links,
		})
	}
}

// RedirectHome sends every unknown path back to the dashboard.
func RedirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}
