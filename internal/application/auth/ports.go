package auth

import (
	"context"
	"time"

	"github.com/loginbase/auth-gateway/internal/domain"
	"github.com/loginbase/auth-gateway/internal/infrastructure/oauth"
)

/*
UserRepo
--------
Persistence port for users.
Only describes WHAT the gateway needs, not HOW it's stored.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)

	// UpsertOAuthUser creates the user on first OAuth sign-in, or refreshes
	// profile fields on a returning one. The bool reports whether a new row
	// was created. The stored password hash is never touched.
	UpsertOAuthUser(ctx context.Context, u domain.User) (domain.User, bool, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt / argon2. Compare may block on CPU-bound hashing work;
callers pass it through the request context but apply no extra timeout.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
SessionCodec
------------
Signs session claims into a token and verifies/decodes tokens back.
Used by service + session middleware.
*/
type SessionCodec interface {
	Encode(claims SessionClaims, ttl time.Duration) (string, error)
	Decode(token string) (SessionClaims, error)
}

/*
OAuthStateStore
---------------
One-time CSRF state for the OAuth flow (holds the PKCE verifier and the
requested post-login target). Backed by Redis or memory.
*/
type OAuthStateData struct {
	CodeVerifier string
	RedirectTo   string
	Provider     string
}

type OAuthStateStore interface {
	Create(ctx context.Context, state OAuthStateData) (string, error)
	Consume(ctx context.Context, token string) (OAuthStateData, error)
}

// OAuthProvider defines the methods required from an OAuth provider (like Google).
type OAuthProvider interface {
	IsConfigured() bool
	AuthURL(state, codeChallenge string) string
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*oauth.TokenResponse, error)
	GetUserInfo(ctx context.Context, accessToken string) (*oauth.UserInfo, error)
}

/*
EventPublisher
--------------
Publishes sign-in events to the message broker. Best-effort: a publish
failure never fails the login.
*/
type SignInEvent struct {
	UserID   string
	Email    string
	Provider string // "credentials" or an OAuth provider name
	NewUser  bool
}

type EventPublisher interface {
	PublishSignIn(ctx context.Context, evt SignInEvent) error
}
