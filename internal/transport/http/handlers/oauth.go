package http_handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/loginbase/auth-gateway/internal/application/auth"
	"github.com/loginbase/auth-gateway/internal/infrastructure/security"
	"github.com/loginbase/auth-gateway/internal/logger"
	"github.com/loginbase/auth-gateway/internal/transport/http/response"
)

// OAuthHandler drives the browser through the provider consent flow.
type OAuthHandler struct {
	svc           *auth.Service
	signinPath    string
	secureCookies bool
}

func NewOAuthHandler(svc *auth.Service, signinPath string, secureCookies bool) *OAuthHandler {
	return &OAuthHandler{
		svc:           svc,
		signinPath:    signinPath,
		secureCookies: secureCookies,
	}
}

// Start handles GET /auth/v1/oauth/{provider}/start?redirect_to=/x
// and answers with a 302 to the provider's consent screen.
func (h *OAuthHandler) Start(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	redirectTo := r.URL.Query().Get("redirect_to")

	res, err := h.svc.OAuthStart(r.Context(), provider, redirectTo)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	http.Redirect(w, r, res.AuthURL, http.StatusFound)
}

// Callback handles GET /auth/v1/oauth/{provider}/callback?code=...&state=...
// This is a browser-facing endpoint: failures land back on the sign-in page
// with an error code, never a JSON body.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	if errCode := r.URL.Query().Get("error"); errCode != "" {
		logger.WithCtx(r.Context()).Warn().
			Str("provider", provider).
			Str("error", errCode).
			Msg("oauth_provider_error")
		h.redirectToSignin(w, r, "oauth_denied")
		return
	}

	if code == "" || state == "" {
		h.redirectToSignin(w, r, "oauth_invalid_callback")
		return
	}

	res, err := h.svc.Authenticate(r.Context(), auth.OAuthCallback{
		Provider: provider,
		State:    state,
		Code:     code,
	})
	if err != nil {
		logger.WithCtx(r.Context()).Warn().
			Str("provider", provider).
			Err(err).
			Msg("oauth_callback_failed")
		h.redirectToSignin(w, r, "oauth_failed")
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.Identity.ID).
		Str("provider", provider).
		Bool("new_user", res.IsNewUser).
		Msg("oauth_logged_in")

	security.SetSessionToken(w, res.Token, h.svc.SessionTTL(), h.secureCookies)

	http.Redirect(w, r, res.RedirectTo, http.StatusSeeOther)
}

func (h *OAuthHandler) redirectToSignin(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, h.signinPath+"?error="+url.QueryEscape(code), http.StatusSeeOther)
}
