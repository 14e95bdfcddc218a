package handlers

import (
	"net/http"
	"net/url"

	"github.com/sageverse/tree/internal/httpserver/deps"
	"github.com/sageverse/tree/internal/logger"
	"github.com/sageverse/tree/internal/view"
)

// SignIn handles the login form.
func SignIn(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.PostFormValue("email")
		password := r.PostFormValue("password")

		if _, err := d.Sessions.SignIn(r.Context(), w, email, password); err != nil {
			msg, status := authFailure(err)
			if status == http.StatusInternalServerError {
				d.Logger.Error("sign in failed", logger.Error(err))
			}
			d.Renderer.Render(w, status, view.Auth, view.AuthPage{Email: email, Error: msg})
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// SignUp handles the registration form. Accounts needing confirmation get
// their link written to the log.
func SignUp(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.PostFormValue("email")
		password := r.PostFormValue("password")

		res, err := d.Sessions.SignUp(r.Context(), email, password)
		if err != nil {
			msg, status := authFailure(err)
			if status == http.StatusInternalServerError {
				d.Logger.Error("sign up failed", logger.Error(err))
			}
			d.Renderer.Render(w, status, view.Auth, view.AuthPage{SignUp: true, Email: email, Error: msg})
			return
		}

		notice := noticeSignedUp
		if res.ConfirmationToken != "" {
			link := origin(r, d) + "/auth/confirm?token=" + url.QueryEscape(res.ConfirmationToken)
			d.Logger.Info("confirmation link issued",
				logger.String("email", res.Account.Email),
				logger.String("url", link))
			notice = noticeConfirm
		}
		d.Renderer.Render(w, http.StatusOK, view.Auth, view.AuthPage{SignUp: true, Notice: notice})
	}
}

// SignOut ends the session and goes back to the login form.
func SignOut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Sessions.SignOut(r.Context(), w, r); err != nil {
			d.Logger.Warn("sign out failed", logger.Error(err))
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// Confirm activates an account from the emailed link.
func Confirm(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, err := d.Sessions.Confirm(r.Context(), r.URL.Query().Get("token"))
		if err != nil {
			d.Logger.Info("confirmation rejected", logger.Error(err))
			d.Renderer.Message(w, http.StatusBadRequest, view.Error, msgInvalidConfirm)
			return
		}
		d.Logger.Info("account confirmed", logger.String("owner_id", acc.ID))
		d.Renderer.Render(w, http.StatusOK, view.Auth, view.AuthPage{Email: acc.Email, Notice: noticeConfirmed})
	}
}
