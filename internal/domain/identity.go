package domain

import "strings"

// Identity is the canonical representation of an authenticated user,
// independent of how the login happened (credentials or OAuth).
// It is produced fresh per successful attempt and never mutated afterwards.
type Identity struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Image     string
	Role      string
}

// IdentityFromUser copies the session-relevant fields off a user row.
func IdentityFromUser(u User) Identity {
	return Identity{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Image:     u.Image,
		Role:      u.Role,
	}
}

// SplitDisplayName splits a single display name into first/last components.
// Token 1 becomes the first name, token 2 the last name; any further tokens
// are dropped. A single-token name ("Madonna") leaves the last name empty.
func SplitDisplayName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	first = parts[0]
	if len(parts) > 1 {
		last = parts[1]
	}
	return first, last
}
