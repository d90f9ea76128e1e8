package auth

import (
	"time"

	"github.com/loginbase/auth-gateway/internal/domain"
)

// SessionClaims are the identity fields embedded in the signed session token.
// ExpiresAt is set by the codec at signing time and is read-only here.
type SessionClaims struct {
	UserID    string
	Role      string
	FirstName string
	LastName  string
	Email     string
	Image     string
	ExpiresAt time.Time
}

// MergeIdentity folds a freshly authenticated identity into claims.
// Fields are overwritten only when a new identity is present (login / token
// issuance); a nil identity models a plain refresh and leaves every field
// untouched.
func MergeIdentity(prev SessionClaims, ident *domain.Identity) SessionClaims {
	if ident == nil {
		return prev
	}
	prev.UserID = ident.ID
	prev.Role = ident.Role
	prev.FirstName = ident.FirstName
	prev.LastName = ident.LastName
	prev.Email = ident.Email
	prev.Image = ident.Image
	return prev
}

// SessionView is the client-visible projection of the session claims.
// Recomputed from the token on every request, never stored.
type SessionView struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Image     string    `json:"image,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ViewFromClaims projects claims onto the outward-facing session object.
// Pure and allocation-cheap; it runs on every authenticated request.
func ViewFromClaims(c SessionClaims) SessionView {
	return SessionView{
		ID:        c.UserID,
		Role:      c.Role,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Image:     c.Image,
		ExpiresAt: c.ExpiresAt,
	}
}
