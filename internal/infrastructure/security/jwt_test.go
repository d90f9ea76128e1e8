package security

import (
	"testing"
	"time"

	"github.com/loginbase/auth-gateway/internal/application/auth"
	"github.com/loginbase/auth-gateway/internal/domain"
)

func testClaims() auth.SessionClaims {
	return auth.SessionClaims{
		UserID:    "u1",
		Role:      "admin",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@x.com",
		Image:     "p.png",
	}
}

func TestJWTSessionCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewJWTSessionCodec("secret", "auth-gateway")

	token, err := codec.Encode(testClaims(), 24*time.Hour)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	got, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	want := testClaims()
	if got.UserID != want.UserID || got.Role != want.Role ||
		got.FirstName != want.FirstName || got.LastName != want.LastName ||
		got.Email != want.Email || got.Image != want.Image {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.ExpiresAt.IsZero() || time.Until(got.ExpiresAt) > 24*time.Hour {
		t.Fatalf("unexpected expiry: %v", got.ExpiresAt)
	}
}

func TestJWTSessionCodec_DecodeIsIdempotent(t *testing.T) {
	t.Parallel()

	codec := NewJWTSessionCodec("secret", "auth-gateway")
	token, err := codec.Encode(testClaims(), time.Hour)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	a, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	b, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if a != b {
		t.Fatalf("repeat decode differs: %+v vs %+v", a, b)
	}
}

func TestJWTSessionCodec_Expired(t *testing.T) {
	t.Parallel()

	codec := NewJWTSessionCodec("secret", "auth-gateway")
	token, err := codec.Encode(testClaims(), -time.Minute)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	_, err = codec.Decode(token)
	if !domain.Is(err, "session_expired") {
		t.Fatalf("expected session_expired, got %v", err)
	}
}

func TestJWTSessionCodec_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := NewJWTSessionCodec("secret-a", "gw").Encode(testClaims(), time.Hour)
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	_, err = NewJWTSessionCodec("secret-b", "gw").Decode(token)
	if !domain.Is(err, "session_invalid") {
		t.Fatalf("expected session_invalid, got %v", err)
	}
}

func TestJWTSessionCodec_Garbage(t *testing.T) {
	t.Parallel()

	_, err := NewJWTSessionCodec("secret", "gw").Decode("not-a-jwt")
	if !domain.Is(err, "session_invalid") {
		t.Fatalf("expected session_invalid, got %v", err)
	}
}
