package http_handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/loginbase/auth-gateway/internal/transport/http/dto"
	"github.com/loginbase/auth-gateway/internal/transport/http/middleware"
	"github.com/loginbase/auth-gateway/internal/transport/http/response"
)

func TestLogin_Success_SetsCookieAndReturnsView(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("ada@example.com", "secret-pw")
	h := NewAuthHandler(env.svc, false)

	req := httptest.NewRequest(http.MethodPost, "/auth/v1/login", mustJSONBody(t, map[string]string{
		"email":    "ada@example.com",
		"password": "secret-pw",
	}))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	c := readCookie(res, "session_token")
	if c == nil || c.Value == "" {
		t.Fatalf("expected session cookie")
	}
	if !c.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}

	var data dto.LoginData
	mustReadData(t, res.Body, &data)
	if data.User.Email != "ada@example.com" || data.User.FirstName != "Ada" || data.User.LastName != "Lovelace" {
		t.Fatalf("unexpected view: %+v", data.User)
	}
	if data.ExpiresIn != 3600 {
		t.Fatalf("expected expires_in 3600, got %d", data.ExpiresIn)
	}
	if data.RedirectTo != "/" {
		t.Fatalf("expected redirect to base, got %q", data.RedirectTo)
	}
}

func TestLogin_MissingCredentials(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.svc, false)

	for _, body := range []map[string]string{
		{"email": "", "password": "pw"},
		{"email": "ada@example.com", "password": ""},
		{},
	} {
		req := httptest.NewRequest(http.MethodPost, "/auth/v1/login", mustJSONBody(t, body))
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		res := rec.Result()
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %v: expected 400, got %d", body, res.StatusCode)
		}
		if code := readErrorCode(t, res.Body); code != "missing_credentials" {
			t.Fatalf("body %v: expected missing_credentials, got %s", body, code)
		}
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("ada@example.com", "secret-pw")
	h := NewAuthHandler(env.svc, false)

	for _, body := range []map[string]string{
		{"email": "nobody@example.com", "password": "secret-pw"}, // unknown email
		{"email": "ada@example.com", "password": "wrong"},        // wrong password
	} {
		req := httptest.NewRequest(http.MethodPost, "/auth/v1/login", mustJSONBody(t, body))
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		res := rec.Result()
		if res.StatusCode != http.StatusUnauthorized {
			t.Fatalf("body %v: expected 401, got %d", body, res.StatusCode)
		}
		if code := readErrorCode(t, res.Body); code != "invalid_credentials" {
			t.Fatalf("body %v: expected invalid_credentials, got %s", body, code)
		}
		if c := readCookie(res, "session_token"); c != nil {
			t.Fatalf("body %v: no cookie expected on failure", body)
		}
	}
}

func TestLogin_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.svc, false)

	req := httptest.NewRequest(http.MethodPost, "/auth/v1/login", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	if code := readErrorCode(t, res.Body); code != "invalid_json" {
		t.Fatalf("expected invalid_json, got %s", code)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.svc, false)

	req := httptest.NewRequest(http.MethodPost, "/auth/v1/logout", nil)
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", res.StatusCode)
	}
	c := readCookie(res, "session_token")
	if c == nil || c.MaxAge != -1 || c.Value != "" {
		t.Fatalf("expected cleared cookie, got %+v", c)
	}
}

func TestLogout_IsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.svc, false)

	// No cookie on the request at all; still a success.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/v1/logout", nil)
		rec := httptest.NewRecorder()

		h.Logout(rec, req)

		if rec.Result().StatusCode != http.StatusNoContent {
			t.Fatalf("logout %d: expected 204, got %d", i, rec.Result().StatusCode)
		}
	}
}

func TestSession_ThroughMiddleware(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("ada@example.com", "secret-pw")
	h := NewAuthHandler(env.svc, false)

	// Login to obtain a real token.
	loginReq := httptest.NewRequest(http.MethodPost, "/auth/v1/login", mustJSONBody(t, map[string]string{
		"email":    "ada@example.com",
		"password": "secret-pw",
	}))
	loginRec := httptest.NewRecorder()
	h.Login(loginRec, loginReq)
	c := readCookie(loginRec.Result(), "session_token")
	if c == nil {
		t.Fatalf("expected session cookie from login")
	}

	protected := middleware.RequireSession(env.svc, response.WriteError)(http.HandlerFunc(h.Session))

	req := httptest.NewRequest(http.MethodGet, "/auth/v1/session", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: c.Value})
	rec := httptest.NewRecorder()

	protected.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var data dto.SessionData
	mustReadData(t, res.Body, &data)
	if data.User.ID != "u1" || data.User.Email != "ada@example.com" {
		t.Fatalf("unexpected session view: %+v", data.User)
	}
	if data.User.ExpiresAt.IsZero() {
		t.Fatalf("expected expiry in view")
	}
}

func TestSession_NoCookie(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.svc, false)

	protected := middleware.RequireSession(env.svc, response.WriteError)(http.HandlerFunc(h.Session))

	req := httptest.NewRequest(http.MethodGet, "/auth/v1/session", nil)
	rec := httptest.NewRecorder()

	protected.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
	if code := readErrorCode(t, res.Body); code != "session_missing" {
		t.Fatalf("expected session_missing, got %s", code)
	}
}

func TestSession_TamperedToken(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.svc, false)

	protected := middleware.RequireSession(env.svc, response.WriteError)(http.HandlerFunc(h.Session))

	req := httptest.NewRequest(http.MethodGet, "/auth/v1/session", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "garbage.token.value"})
	rec := httptest.NewRecorder()

	protected.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
	if code := readErrorCode(t, res.Body); code != "session_invalid" {
		t.Fatalf("expected session_invalid, got %s", code)
	}
}
