package handlers

import (
	"errors"
	"net/http"

	"github.com/sageverse/tree/internal/backend"
)

const (
	msgUserNotFound   = "User not found."
	msgProfileLoad    = "Could not load profile."
	msgProfileSave    = "Could not save profile. Please try again."
	msgInvalidConfirm = "Confirmation link is invalid or has already been used."
	msgGeneric        = "Something went wrong. Please try again."

	noticeConfirm   = "🎉 Thanks for signing up! Please check your email to confirm your address before logging in."
	noticeSignedUp  = "🎉 Thanks for signing up! You can now log in."
	noticeConfirmed = "✅ Your email is confirmed. You can now log in."
)

// authFailure maps an auth error to the inline message and status of the
// re-rendered form.
func authFailure(err error) (string, int) {
	switch {
	case errors.Is(err, backend.ErrMissingCredentials):
		return "Email and password are required", http.StatusBadRequest
	case errors.Is(err, backend.ErrInvalidCredentials):
		return "Invalid login credentials", http.StatusUnauthorized
	case errors.Is(err, backend.ErrNotConfirmed):
		return "Email not confirmed", http.StatusForbidden
	case errors.Is(err, backend.ErrEmailTaken):
		return "User already registered", http.StatusConflict
	default:
		return msgGeneric, http.StatusInternalServerError
	}
}
