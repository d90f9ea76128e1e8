package domain

// User is a persisted account row. PasswordHash is empty for accounts created
// through an OAuth provider; such accounts must never pass credential login.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Image        string
	Role         string
}

// HasPassword reports whether the account supports credential login.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}
