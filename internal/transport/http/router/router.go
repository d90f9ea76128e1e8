package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loginbase/auth-gateway/internal/transport/http/middleware"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Session(w http.ResponseWriter, r *http.Request)
}

type OAuthHandler interface {
	Start(w http.ResponseWriter, r *http.Request)
	Callback(w http.ResponseWriter, r *http.Request)
}

type PagesHandler interface {
	Authorized(w http.ResponseWriter, r *http.Request)
	SignIn(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health HealthHandler
	Auth   AuthHandler
	OAuth  OAuthHandler
	Pages  PagesHandler

	// SessionMW answers 401 JSON when no valid session cookie is present.
	SessionMW func(http.Handler) http.Handler
	// PageMW redirects the browser to the sign-in page instead.
	PageMW func(http.Handler) http.Handler

	// SigninPath is where the sign-in page is mounted. Defaults to /login.
	SigninPath string
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.OAuth == nil {
		return nil, fmt.Errorf("nil OAuth handler")
	}
	if deps.Pages == nil {
		return nil, fmt.Errorf("nil Pages handler")
	}
	if deps.SessionMW == nil {
		return nil, fmt.Errorf("nil Session middleware")
	}
	if deps.PageMW == nil {
		return nil, fmt.Errorf("nil Page middleware")
	}

	signinPath := deps.SigninPath
	if signinPath == "" {
		signinPath = "/login"
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)

	r.Route("/auth/v1", func(r chi.Router) {
		r.Post("/login", deps.Auth.Login)
		r.Post("/logout", deps.Auth.Logout)
		r.With(deps.SessionMW).Get("/session", deps.Auth.Session)

		r.Get("/oauth/{provider}/start", deps.OAuth.Start)
		r.Get("/oauth/{provider}/callback", deps.OAuth.Callback)
	})

	r.Get(signinPath, deps.Pages.SignIn)
	r.With(deps.PageMW).Get("/authorized", deps.Pages.Authorized)

	return r, nil
}
