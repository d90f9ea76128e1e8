package http_handlers

import (
	"net/http"

	"github.com/loginbase/auth-gateway/internal/application/auth"
	"github.com/loginbase/auth-gateway/internal/domain"
	"github.com/loginbase/auth-gateway/internal/infrastructure/security"
	"github.com/loginbase/auth-gateway/internal/logger"
	"github.com/loginbase/auth-gateway/internal/transport/http/dto"
	"github.com/loginbase/auth-gateway/internal/transport/http/middleware"
	"github.com/loginbase/auth-gateway/internal/transport/http/response"
)

type AuthHandler struct {
	svc           *auth.Service
	secureCookies bool
}

func NewAuthHandler(svc *auth.Service, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		svc:           svc,
		secureCookies: secureCookies,
	}
}

// Login handles POST /auth/v1/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Authenticate(r.Context(), auth.Credentials{
		Email:      req.Email,
		Password:   req.Password,
		RedirectTo: req.RedirectTo,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	view, err := h.svc.Session(res.Token)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.Identity.ID).
		Msg("user_logged_in")

	security.SetSessionToken(w, res.Token, h.svc.SessionTTL(), h.secureCookies)

	response.OK(w, dto.LoginData{
		User:       view,
		ExpiresIn:  res.ExpiresIn,
		RedirectTo: res.RedirectTo,
	})
}

// Logout handles POST /auth/v1/logout. Idempotent: clearing an absent
// cookie is still a success.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	security.ClearSessionToken(w, h.secureCookies)
	response.NoContent(w)
}

// Session handles GET /auth/v1/session. The view is recomputed from the
// token by the auth middleware on every call; this only projects it out.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	view, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrSessionMissing())
		return
	}

	response.OK(w, dto.SessionData{User: view})
}
