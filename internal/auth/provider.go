package auth

import (
	"context"
	"errors"
	"net/http"
)

var (
	// ErrInvalidState means the OAuth state did not match the one issued at login
	ErrInvalidState = errors.New("invalid oauth state")
	// ErrNoSession means the request carries no valid session
	ErrNoSession = errors.New("no session")
)

// Provider is an external identity provider
type Provider interface {
	// Session returns the logged in user of r, if any
	Session(r *http.Request) (*User, bool)
	// LoginURL is where the visitor is sent to log in
	LoginURL(state string) string
	// Complete exchanges the callback code for the user identity
	Complete(ctx context.Context, code string) (*User, error)
	// Logout clears the session
	Logout(w http.ResponseWriter)
}
