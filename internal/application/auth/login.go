package auth

import (
	"context"
	"strings"

	"github.com/loginbase/auth-gateway/internal/domain"
)

// Login authenticates a credentials attempt and issues a session token.
// IMPORTANT: unknown email, store failure, OAuth-only account and wrong
// password all surface the same invalid_credentials error, so the caller
// cannot enumerate users.
func (s *Service) Login(ctx context.Context, in Credentials) (*AuthResult, error) {
	email := strings.TrimSpace(in.Email)

	if email == "" || in.Password == "" {
		return nil, domain.ErrMissingCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Hide not-found and lookup failures alike; fail closed.
		return nil, domain.ErrInvalidCredentials()
	}

	// Accounts created via OAuth have no hash; credential login is rejected,
	// not silently accepted.
	if !u.HasPassword() {
		return nil, domain.ErrInvalidCredentials()
	}

	if err := s.hasher.Compare(u.PasswordHash, in.Password); err != nil {
		return nil, domain.ErrInvalidCredentials()
	}

	ident := domain.IdentityFromUser(u)

	token, err := s.issueSession(ident)
	if err != nil {
		return nil, err
	}

	s.audit("login", map[string]string{"user_id": u.ID})
	s.publishSignIn(ctx, SignInEvent{
		UserID:   u.ID,
		Email:    u.Email,
		Provider: "credentials",
	})

	return &AuthResult{
		Identity:   ident,
		Token:      token,
		ExpiresIn:  int64(s.sessionTTL.Seconds()),
		RedirectTo: s.redirectTarget(in.RedirectTo),
	}, nil
}
