package domain

type Role string

const (
	// Default role for every account, including OAuth sign-ins
	// (OAuth profiles carry no role claim).
	RoleUser Role = "user"
	// Admin users get privileged pages and management endpoints.
	RoleAdmin Role = "admin"
)

func IsValidRole(r string) bool {
	return r == string(RoleUser) || r == string(RoleAdmin)
}

// DefaultRole returns the role assigned when none is stored.
func DefaultRole() string { return string(RoleUser) }
