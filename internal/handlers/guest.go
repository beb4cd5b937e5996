// internal/handlers/guest.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"promptduel/internal/auth"
)

const guestCookieName = "guest_token"

// EnsureGuest resolves the caller's guest identity from the guest_token cookie,
// minting a fresh identity (and setting the cookie) when none is present or the
// token fails verification. Must run before the websocket upgrade, since a
// Set-Cookie header cannot be added after the 101 response.
func EnsureGuest(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	if cookie, err := r.Cookie(guestCookieName); err == nil {
		sub, err := auth.AuthenticateJWT(cookie.Value)
		if err == nil {
			if guestID, parseErr := uuid.Parse(sub); parseErr == nil {
				return guestID, nil
			}
		}
		// Fall through and mint a new identity on any verification failure.
	}

	guestID := uuid.New()
	token, err := auth.CreateJWT(guestID.String())
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create guest JWT: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     guestCookieName,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
	return guestID, nil
}
