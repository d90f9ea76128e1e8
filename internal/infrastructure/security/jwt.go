package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/loginbase/auth-gateway/internal/application/auth"
	"github.com/loginbase/auth-gateway/internal/domain"
)

// JWTSessionCodec signs session claims into an HS256 JWT and back.
type JWTSessionCodec struct {
	secret []byte
	issuer string
}

func NewJWTSessionCodec(secret string, issuer string) *JWTSessionCodec {
	return &JWTSessionCodec{
		secret: []byte(secret),
		issuer: issuer,
	}
}

type sessionClaims struct {
	UserID    string `json:"uid"`
	Role      string `json:"role"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Image     string `json:"image,omitempty"`
	jwt.RegisteredClaims
}

func (c *JWTSessionCodec) Encode(claims auth.SessionClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	sc := sessionClaims{
		UserID:    claims.UserID,
		Role:      claims.Role,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Email:     claims.Email,
		Image:     claims.Image,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, sc)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

func (c *JWTSessionCodec) Decode(token string) (auth.SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if t.Method != jwt.SigningMethodHS256 {
			return nil, domain.ErrSessionInvalid()
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.SessionClaims{}, domain.ErrSessionExpired()
		}
		return auth.SessionClaims{}, domain.ErrSessionInvalid()
	}

	sc, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return auth.SessionClaims{}, domain.ErrSessionInvalid()
	}

	exp := time.Time{}
	if sc.ExpiresAt != nil {
		exp = sc.ExpiresAt.Time
	}

	return auth.SessionClaims{
		UserID:    sc.UserID,
		Role:      sc.Role,
		FirstName: sc.FirstName,
		LastName:  sc.LastName,
		Email:     sc.Email,
		Image:     sc.Image,
		ExpiresAt: exp,
	}, nil
}
