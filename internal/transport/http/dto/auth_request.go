package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/loginbase/auth-gateway/internal/domain"
)

var validate = validator.New()

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" || r.Password == "" {
		return domain.ErrMissingCredentials()
	}
	if err := validate.Var(r.Email, "email"); err != nil {
		return domain.ErrInvalidField("email", "invalid format")
	}
	return nil
}

type LogoutRequest struct{}
