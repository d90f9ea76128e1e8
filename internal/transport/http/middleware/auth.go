package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/loginbase/auth-gateway/internal/application/auth"
	"github.com/loginbase/auth-gateway/internal/domain"
	"github.com/loginbase/auth-gateway/internal/infrastructure/security"
)

// SessionReader decodes a session token into the client-visible view.
type SessionReader interface {
	Session(token string) (auth.SessionView, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// RequireSession protects JSON API routes. It reads the session cookie,
// decodes it, and injects the session view into the request context.
// Failures get a JSON 401, never a redirect.
func RequireSession(sessions SessionReader, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			view, err := sessionFromRequest(sessions, r)
			if err != nil {
				writeErr(w, r, err)
				return
			}

			ctx := WithSession(r.Context(), view)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePage protects browser-facing pages. An unauthenticated request is
// sent to the sign-in page with 303 See Other instead of a JSON error.
// When preserveTarget is set, the original path rides along as redirect_to
// so the flow can land back where it started.
func RequirePage(sessions SessionReader, signinPath string, preserveTarget bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			view, err := sessionFromRequest(sessions, r)
			if err != nil {
				target := signinPath
				if preserveTarget && strings.HasPrefix(r.URL.Path, "/") && !strings.HasPrefix(r.URL.Path, "//") {
					target += "?redirect_to=" + url.QueryEscape(r.URL.Path)
				}
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}

			ctx := WithSession(r.Context(), view)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromRequest(sessions SessionReader, r *http.Request) (auth.SessionView, error) {
	tok, err := security.ReadSessionToken(r)
	if err != nil || tok == "" {
		return auth.SessionView{}, domain.ErrSessionMissing()
	}

	view, err := sessions.Session(tok)
	if err != nil {
		return auth.SessionView{}, err
	}
	if view.ID == "" {
		return auth.SessionView{}, domain.ErrSessionInvalid()
	}
	return view, nil
}
