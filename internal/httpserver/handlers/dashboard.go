package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/sageverse/tree/internal/domain"
	"github.com/sageverse/tree/internal/httpserver/deps"
	"github.com/sageverse/tree/internal/logger"
	"github.com/sageverse/tree/internal/profile"
	"github.com/sageverse/tree/internal/session"
	"github.com/sageverse/tree/internal/shortener"
	"github.com/sageverse/tree/internal/utils"
	"github.com/sageverse/tree/internal/view"
)

// Dashboard shows the auth form to anonymous visitors and the owner's
// profile otherwise, initializing it on first access.
func Dashboard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := session.FromContext(r.Context())
		if !ok {
			d.Renderer.Render(w, http.StatusOK, view.PageFor(profile.NotAuthenticated), view.AuthPage{
				SignUp: r.URL.Query().Get("mode") == "signup",
			})
			return
		}

		page, err := d.Synchronizer.Load(r.Context(), s.OwnerID)
		if err != nil {
			d.Logger.Error("dashboard load failed", logger.String("owner_id", s.OwnerID), logger.Error(err))
			d.Renderer.Message(w, http.StatusInternalServerError, view.Error, msgProfileLoad)
			return
		}

		share := d.Shortener.Lookup(r.Context(), shortener.ShareURL(origin(r, d), s.OwnerID))
		d.Renderer.Render(w, http.StatusOK, view.PageFor(profile.Viewing), view.DashboardPage{
			Profile:  page.Profile,
			Links:    page.Links,
			ShareURL: share,
		})
	}
}

// EditForm opens the editor on the stored values.
func EditForm(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := session.FromContext(r.Context())

		page, err := d.Synchronizer.Load(r.Context(), s.OwnerID)
		if err != nil {
			d.Logger.Error("editor load failed", logger.String("owner_id", s.OwnerID), logger.Error(err))
			d.Renderer.Message(w, http.StatusInternalServerError, view.Error, msgProfileLoad)
			return
		}

		draft := profile.DraftFrom(page)
		d.Renderer.Render(w, http.StatusOK, view.PageFor(profile.Editing), view.EditPage{Profile: draft.Profile, Links: draft.Links})
	}
}

// EditSubmit applies one editor action. "add" and "remove-N" only change
// the draft and re-render it; "save" persists both parts and returns home.
func EditSubmit(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := session.FromContext(r.Context())
		if err := r.ParseForm(); err != nil {
			d.Renderer.Message(w, http.StatusBadRequest, view.Error, msgGeneric)
			return
		}

		draft := draftFromForm(r, s.OwnerID)
		action := r.PostForm.Get("action")

		switch {
		case action == "add":
			draft.AddLink()
		case strings.HasPrefix(action, "remove-"):
			i, err := strconv.Atoi(strings.TrimPrefix(action, "remove-"))
			if err == nil {
				draft.RemoveLink(i)
			}
		default:
			if err := d.Synchronizer.Save(r.Context(), s.OwnerID, draft); err != nil {
				d.Renderer.Render(w, http.StatusInternalServerError, view.PageFor(profile.Editing), view.EditPage{
					Profile: draft.Profile,
					Links:   d.Synchronizer.Decorate(draft.Links),
					Error:   msgProfileSave,
				})
				return
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		d.Renderer.Render(w, http.StatusOK, view.PageFor(profile.Editing), view.EditPage{
			Profile: draft.Profile,
			Links:   d.Synchronizer.Decorate(draft.Links),
		})
	}
}

// draftFromForm reads the editor fields. Link rows come as parallel
// link_title / link_url lists in display order.
func draftFromForm(r *http.Request, ownerID string) profile.Draft {
	titles := r.PostForm["link_title"]
	urls := r.PostForm["link_url"]

	n := len(titles)
	if len(urls) > n {
		n = len(urls)
	}
	links := make([]domain.LinkView, n)
	for i := range links {
		links[i].Position = i
		if i < len(titles) {
			links[i].Title = strings.TrimSpace(titles[i])
		}
		if i < len(urls) {
			links[i].URL = strings.TrimSpace(urls[i])
		}
	}

	return profile.Draft{
		Profile: domain.Profile{
			OwnerID:   ownerID,
			Name:      strings.TrimSpace(r.PostForm.Get("name")),
			Bio:       strings.TrimSpace(r.PostForm.Get("bio")),
			AvatarURL: strings.TrimSpace(r.PostForm.Get("avatar_url")),
		},
		Links: links,
	}
}

func origin(r *http.Request, d deps.Deps) string {
	if d.PublicBaseURL != "" {
		return d.PublicBaseURL
	}
	return utils.RequestOrigin(r, d.TrustProxy)
}
