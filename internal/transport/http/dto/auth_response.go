package dto

import "github.com/loginbase/auth-gateway/internal/application/auth"

// LoginData is returned by a successful credentials login.
type LoginData struct {
	User       auth.SessionView `json:"user"`
	ExpiresIn  int64            `json:"expires_in"` // seconds
	RedirectTo string           `json:"redirect_to"`
}

// SessionData is returned by GET /auth/v1/session.
type SessionData struct {
	User auth.SessionView `json:"user"`
}
