package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/loginbase/auth-gateway/internal/application/auth"
	"github.com/loginbase/auth-gateway/internal/domain"
)

// fakeSessions decodes "good" into a fixed view and rejects everything else.
type fakeSessions struct{}

func (fakeSessions) Session(token string) (auth.SessionView, error) {
	if token == "good" {
		return auth.SessionView{
			ID:        "u1",
			Role:      "user",
			Email:     "ada@example.com",
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil
	}
	return auth.SessionView{}, domain.ErrSessionInvalid()
}

func writeErrPlain(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	status := http.StatusInternalServerError
	code := "internal_error"
	if ok := asDomain(err, &de); ok {
		status = http.StatusUnauthorized
		code = de.Code
	}
	w.WriteHeader(status)
	fmt.Fprint(w, code)
}

func asDomain(err error, de **domain.Error) bool {
	d, ok := err.(*domain.Error)
	if ok {
		*de = d
	}
	return ok
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		view, ok := SessionFromContext(r.Context())
		if !ok {
			t.Fatalf("expected session in context")
		}
		if view.ID != "u1" {
			t.Fatalf("unexpected session: %+v", view)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSession_ValidCookie(t *testing.T) {
	mw := RequireSession(fakeSessions{}, writeErrPlain)

	req := httptest.NewRequest(http.MethodGet, "/auth/v1/session", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "good"})
	rec := httptest.NewRecorder()

	mw(okHandler(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireSession_NoCookie(t *testing.T) {
	mw := RequireSession(fakeSessions{}, writeErrPlain)

	req := httptest.NewRequest(http.MethodGet, "/auth/v1/session", nil)
	rec := httptest.NewRecorder()

	mw(okHandler(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Body.String() != "session_missing" {
		t.Fatalf("expected session_missing, got %s", rec.Body.String())
	}
}

func TestRequireSession_BadToken(t *testing.T) {
	mw := RequireSession(fakeSessions{}, writeErrPlain)

	req := httptest.NewRequest(http.MethodGet, "/auth/v1/session", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "tampered"})
	rec := httptest.NewRecorder()

	mw(okHandler(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Body.String() != "session_invalid" {
		t.Fatalf("expected session_invalid, got %s", rec.Body.String())
	}
}

func TestRequireSession_SecureCookiePrefix(t *testing.T) {
	mw := RequireSession(fakeSessions{}, writeErrPlain)

	req := httptest.NewRequest(http.MethodGet, "/auth/v1/session", nil)
	req.AddCookie(&http.Cookie{Name: "__Host-session_token", Value: "good"})
	rec := httptest.NewRecorder()

	mw(okHandler(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 via __Host- cookie, got %d", rec.Code)
	}
}

func TestRequirePage_RedirectsToSignin(t *testing.T) {
	mw := RequirePage(fakeSessions{}, "/login", false)

	req := httptest.NewRequest(http.MethodGet, "/authorized", nil)
	rec := httptest.NewRecorder()

	mw(okHandler(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected /login, got %q", loc)
	}
}

func TestRequirePage_PreservesTarget(t *testing.T) {
	mw := RequirePage(fakeSessions{}, "/login", true)

	req := httptest.NewRequest(http.MethodGet, "/authorized", nil)
	rec := httptest.NewRecorder()

	mw(okHandler(t)).ServeHTTP(rec, req)

	if loc := rec.Header().Get("Location"); loc != "/login?redirect_to=%2Fauthorized" {
		t.Fatalf("unexpected location: %q", loc)
	}
}

func TestRequirePage_PassesThroughWithSession(t *testing.T) {
	mw := RequirePage(fakeSessions{}, "/login", false)

	req := httptest.NewRequest(http.MethodGet, "/authorized", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "good"})
	rec := httptest.NewRecorder()

	mw(okHandler(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
