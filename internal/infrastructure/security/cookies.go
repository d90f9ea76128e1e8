package security

import (
	"net/http"
	"time"
)

const SessionCookieName = "session_token"

func cookieName(secure bool) string {
	if secure {
		return "__Host-" + SessionCookieName
	}
	return SessionCookieName
}

func SetSessionToken(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(secure),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure, // prod=true, dev=false
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

func ClearSessionToken(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(secure),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func ReadSessionToken(r *http.Request) (string, error) {
	// Prefer the __Host- cookie; fall back for local non-HTTPS development.
	if c, err := r.Cookie("__Host-" + SessionCookieName); err == nil {
		return c.Value, nil
	}
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}
