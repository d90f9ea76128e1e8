package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/loginbase/auth-gateway/internal/application/auth"
	"github.com/loginbase/auth-gateway/internal/domain"
	"github.com/loginbase/auth-gateway/internal/infrastructure/memory"
	"github.com/loginbase/auth-gateway/internal/infrastructure/oauth"
	"github.com/loginbase/auth-gateway/internal/infrastructure/security"
)

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// mustReadData decodes the {"data": ...} envelope from r into out.
func mustReadData(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	wrapped := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(raw, &wrapped); err != nil || len(wrapped.Data) == 0 {
		t.Fatalf("decode json failed; body=%s", string(raw))
	}
	if err := json.Unmarshal(wrapped.Data, out); err != nil {
		t.Fatalf("decode wrapped.data failed; body=%s err=%v", string(raw), err)
	}
}

// readErrorCode extracts error.code from a JSON error body.
func readErrorCode(t *testing.T, r io.Reader) string {
	t.Helper()

	body := struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}{}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Code
}

// readCookie finds a cookie by name from response headers.
func readCookie(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// -------------------------
// Test wiring (pure unit)
// -------------------------

// fakeHasher avoids bcrypt cost in handler tests; hashes are "hash:" + pw.
type fakeHasher struct{}

func (fakeHasher) Hash(pw string) (string, error) { return "hash:" + pw, nil }

func (fakeHasher) Compare(hash, pw string) error {
	if hash != "hash:"+pw {
		return fmt.Errorf("mismatch")
	}
	return nil
}

// fakeGoogle is a configured provider with programmable responses.
type fakeGoogle struct {
	exchangeFn func(code, verifier string) (*oauth.TokenResponse, error)
	userinfoFn func(accessToken string) (*oauth.UserInfo, error)
}

func (g *fakeGoogle) IsConfigured() bool { return true }

func (g *fakeGoogle) AuthURL(state, challenge string) string {
	return "https://accounts.example.com/consent?state=" + state
}

func (g *fakeGoogle) ExchangeCode(_ context.Context, code, verifier string) (*oauth.TokenResponse, error) {
	if g.exchangeFn != nil {
		return g.exchangeFn(code, verifier)
	}
	return &oauth.TokenResponse{AccessToken: "at-1"}, nil
}

func (g *fakeGoogle) GetUserInfo(_ context.Context, accessToken string) (*oauth.UserInfo, error) {
	if g.userinfoFn != nil {
		return g.userinfoFn(accessToken)
	}
	return &oauth.UserInfo{
		Sub:     "sub-1",
		Email:   "ada@example.com",
		Name:    "Ada Lovelace",
		Picture: "p.png",
	}, nil
}

type testEnv struct {
	svc    *auth.Service
	users  *memory.UserRepo
	states *memory.OAuthStateStore
	google *fakeGoogle
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := memory.NewUserRepo()
	states := memory.NewOAuthStateStore(time.Minute)
	google := &fakeGoogle{}

	svc := auth.NewService(
		users,
		fakeHasher{},
		security.NewJWTSessionCodec("test-secret", "auth-gateway"),
		states,
		google,
		memory.NewPublisher(),
		auth.Config{SessionTTL: time.Hour},
	)

	return &testEnv{svc: svc, users: users, states: states, google: google}
}

func (e *testEnv) seedUser(email, password string) domain.User {
	u := domain.User{
		ID:           "u1",
		Email:        email,
		PasswordHash: "hash:" + password,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Role:         "user",
	}
	e.users.Seed(u)
	return u
}
