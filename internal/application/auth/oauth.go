package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/loginbase/auth-gateway/internal/domain"
	"github.com/loginbase/auth-gateway/internal/infrastructure/oauth"
)

// OAuthStartResult contains the authorization URL to redirect to.
type OAuthStartResult struct {
	AuthURL string
}

// OAuthStart initiates the OAuth flow by generating state and PKCE values.
func (s *Service) OAuthStart(ctx context.Context, provider, redirectTo string) (*OAuthStartResult, error) {
	if provider != "google" {
		return nil, domain.New(domain.KindValidation, "unsupported_provider", "unsupported oauth provider")
	}
	if s.google == nil || !s.google.IsConfigured() {
		return nil, domain.New(domain.KindValidation, "oauth_not_configured", "google oauth not configured")
	}

	verifier, challenge, err := oauth.GeneratePKCE()
	if err != nil {
		return nil, domain.ErrInternal(fmt.Errorf("generate pkce: %w", err))
	}

	stateToken, err := s.states.Create(ctx, OAuthStateData{
		CodeVerifier: verifier,
		RedirectTo:   redirectTo,
		Provider:     provider,
	})
	if err != nil {
		return nil, domain.ErrInternal(fmt.Errorf("create oauth state: %w", err))
	}

	return &OAuthStartResult{AuthURL: s.google.AuthURL(stateToken, challenge)}, nil
}

// CompleteOAuth handles the provider callback: consumes the one-time state,
// exchanges the code, normalizes the profile and upserts the user row.
func (s *Service) CompleteOAuth(ctx context.Context, in OAuthCallback) (*AuthResult, error) {
	// One-time use prevents replay.
	state, err := s.states.Consume(ctx, in.State)
	if err != nil {
		return nil, domain.ErrOAuthStateInvalid()
	}
	if state.Provider != in.Provider {
		return nil, domain.ErrOAuthStateInvalid()
	}

	if in.Provider != "google" {
		return nil, domain.New(domain.KindValidation, "unsupported_provider", "unsupported oauth provider")
	}

	tokenResp, err := s.google.ExchangeCode(ctx, in.Code, state.CodeVerifier)
	if err != nil {
		return nil, domain.Wrap(domain.KindAuth, "oauth_exchange_failed", "oauth code exchange failed", err)
	}

	info, err := s.google.GetUserInfo(ctx, tokenResp.AccessToken)
	if err != nil {
		return nil, domain.Wrap(domain.KindAuth, "oauth_userinfo_failed", "oauth userinfo fetch failed", err)
	}

	profile := NormalizeProfile(info)

	u, created, err := s.users.UpsertOAuthUser(ctx, domain.User{
		ID:        uuid.NewString(), // used only when a new row is inserted
		Email:     profile.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Image:     profile.Image,
		Role:      profile.Role,
	})
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}

	ident := domain.IdentityFromUser(u)

	token, err := s.issueSession(ident)
	if err != nil {
		return nil, err
	}

	if created {
		s.audit("oauth_register", map[string]string{
			"user_id":  u.ID,
			"provider": in.Provider,
		})
	} else {
		s.audit("oauth_login", map[string]string{
			"user_id":  u.ID,
			"provider": in.Provider,
		})
	}
	s.publishSignIn(ctx, SignInEvent{
		UserID:   u.ID,
		Email:    u.Email,
		Provider: in.Provider,
		NewUser:  created,
	})

	return &AuthResult{
		Identity:   ident,
		Token:      token,
		ExpiresIn:  int64(s.sessionTTL.Seconds()),
		RedirectTo: s.redirectTarget(state.RedirectTo),
		IsNewUser:  created,
	}, nil
}

// NormalizeProfile maps a provider userinfo payload onto the gateway's
// identity shape. Explicit given/family names win; otherwise the display
// name is split on whitespace (first token → first name, second token →
// last name, the rest dropped). OAuth carries no role claim, so the role
// is left at the default.
func NormalizeProfile(info *oauth.UserInfo) domain.Identity {
	first, last := info.GivenName, info.FamilyName
	if first == "" && last == "" {
		first, last = domain.SplitDisplayName(info.Name)
	}
	return domain.Identity{
		ID:        info.Sub,
		FirstName: first,
		LastName:  last,
		Email:     info.Email,
		Image:     info.Picture,
		Role:      domain.DefaultRole(),
	}
}
