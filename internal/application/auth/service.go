package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/loginbase/auth-gateway/internal/domain"
)

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	codec  SessionCodec
	states OAuthStateStore
	google OAuthProvider
	pub    EventPublisher

	sessionTTL       time.Duration
	preserveRedirect bool
	audit            func(action string, fields map[string]string)
}

type Config struct {
	SessionTTL time.Duration
	// When false (the default, matching the original behavior), every
	// successful login lands on the base URL regardless of the deep link
	// that started the flow.
	PreserveRedirectTarget bool
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	codec SessionCodec,
	states OAuthStateStore,
	google OAuthProvider,
	pub EventPublisher,
	cfg Config,
) *Service {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		users:  users,
		hasher: hasher,
		codec:  codec,
		states: states,
		google: google,
		pub:    pub,

		sessionTTL:       ttl,
		preserveRedirect: cfg.PreserveRedirectTarget,
		audit:            func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// SessionTTL returns the fixed lifetime applied at issuance.
func (s *Service) SessionTTL() time.Duration { return s.sessionTTL }

/*
AuthMethod
----------
Tagged variant dispatched by Authenticate. Providers are values, not
duck-typed objects, so the compiler knows the full set of entry states.
*/
type AuthMethod interface{ isAuthMethod() }

// Credentials is an email/password attempt from the login form.
type Credentials struct {
	Email      string
	Password   string
	RedirectTo string
}

// OAuthCallback is the browser returning from a provider consent screen.
type OAuthCallback struct {
	Provider string
	State    string
	Code     string
}

func (Credentials) isAuthMethod()   {}
func (OAuthCallback) isAuthMethod() {}

// AuthResult is the terminal authenticated state of either entry flow.
type AuthResult struct {
	Identity   domain.Identity
	Token      string
	ExpiresIn  int64  // seconds
	RedirectTo string // same-origin path to land on after login
	IsNewUser  bool
}

// Authenticate routes an attempt to the matching authenticator.
func (s *Service) Authenticate(ctx context.Context, m AuthMethod) (*AuthResult, error) {
	switch v := m.(type) {
	case Credentials:
		return s.Login(ctx, v)
	case OAuthCallback:
		return s.CompleteOAuth(ctx, v)
	default:
		return nil, domain.ErrInternal(fmt.Errorf("unknown auth method %T", m))
	}
}

// Session re-projects a token's claims into the client-visible view.
// Pure decode path: no I/O, safe on every request.
func (s *Service) Session(token string) (SessionView, error) {
	claims, err := s.codec.Decode(token)
	if err != nil {
		return SessionView{}, err
	}
	return ViewFromClaims(claims), nil
}

// issueSession encodes a fresh identity into a signed session token.
func (s *Service) issueSession(ident domain.Identity) (string, error) {
	claims := MergeIdentity(SessionClaims{}, &ident)
	token, err := s.codec.Encode(claims, s.sessionTTL)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return token, nil
}

// redirectTarget applies the post-login redirect policy.
func (s *Service) redirectTarget(requested string) string {
	if s.preserveRedirect && isSafePath(requested) {
		return requested
	}
	return "/"
}

// isSafePath accepts only same-origin absolute paths ("/x"), rejecting
// protocol-relative ("//evil") and external URLs.
func isSafePath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//")
}

// publishSignIn is best-effort; a broker outage must not fail a login.
func (s *Service) publishSignIn(ctx context.Context, evt SignInEvent) {
	if s.pub == nil {
		return
	}
	if err := s.pub.PublishSignIn(ctx, evt); err != nil {
		s.audit("signin_publish_failed", map[string]string{
			"user_id": evt.UserID,
			"error":   err.Error(),
		})
	}
}
