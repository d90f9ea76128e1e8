package http_handlers

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/loginbase/auth-gateway/internal/transport/http/middleware"
)

// PagesHandler renders the browser-facing demo pages. Everything else in
// the gateway speaks JSON; these two endpoints exist so the redirect flow
// can be exercised end to end without a separate frontend.
type PagesHandler struct {
	signinTmpl     *template.Template
	authorizedTmpl *template.Template
}

func NewPagesHandler() *PagesHandler {
	return &PagesHandler{
		signinTmpl:     template.Must(template.New("signin").Parse(signinTemplate)),
		authorizedTmpl: template.Must(template.New("authorized").Parse(authorizedTemplate)),
	}
}

// Authorized handles GET /authorized. The page middleware guarantees a
// session is present; unauthenticated browsers never reach this handler.
func (h *PagesHandler) Authorized(w http.ResponseWriter, r *http.Request) {
	view, _ := middleware.SessionFromContext(r.Context())

	data := struct {
		FirstName string
		LastName  string
		Email     string
	}{
		FirstName: view.FirstName,
		LastName:  view.LastName,
		Email:     view.Email,
	}

	renderHTML(w, h.authorizedTmpl, data)
}

// SignIn handles GET /login.
func (h *PagesHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	data := struct {
		RedirectTo string
		ErrorCode  string
	}{
		RedirectTo: r.URL.Query().Get("redirect_to"),
		ErrorCode:  r.URL.Query().Get("error"),
	}

	renderHTML(w, h.signinTmpl, data)
}

func renderHTML(w http.ResponseWriter, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

const authorizedTemplate = `<!DOCTYPE html>
<html>
<head>
  <title>Authorized</title>
  <style>
    body { font-family: system-ui, sans-serif; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; background: #f5f5f5; }
    .container { text-align: center; padding: 2rem; background: white; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
    .muted { color: #777; }
  </style>
</head>
<body>
  <div class="container">
    <h1>You are Authorised!</h1>
    <p>{{.FirstName}} {{.LastName}}</p>
    <p class="muted">{{.Email}}</p>
    <form method="post" action="/auth/v1/logout">
      <button type="submit">Sign out</button>
    </form>
  </div>
</body>
</html>`

const signinTemplate = `<!DOCTYPE html>
<html>
<head>
  <title>Sign in</title>
  <style>
    body { font-family: system-ui, sans-serif; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; background: #f5f5f5; }
    .container { padding: 2rem; background: white; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); width: 320px; }
    input { display: block; width: 100%; box-sizing: border-box; margin-bottom: 0.75rem; padding: 0.5rem; }
    button { width: 100%; padding: 0.5rem; cursor: pointer; }
    .divider { text-align: center; color: #999; margin: 1rem 0; }
    .error { color: #e74c3c; }
    a.google { display: block; text-align: center; padding: 0.5rem; border: 1px solid #ccc; border-radius: 4px; text-decoration: none; color: #333; }
  </style>
</head>
<body>
  <div class="container">
    <h2>Sign in</h2>
    {{if .ErrorCode}}<p class="error">Sign-in failed ({{.ErrorCode}}). Please try again.</p>{{end}}
    <form id="login-form">
      <input type="email" name="email" placeholder="Email" autocomplete="username">
      <input type="password" name="password" placeholder="Password" autocomplete="current-password">
      <button type="submit">Sign in</button>
    </form>
    <div class="divider">or</div>
    <a class="google" href="/auth/v1/oauth/google/start{{if .RedirectTo}}?redirect_to={{.RedirectTo}}{{end}}">Continue with Google</a>
  </div>
  <script>
    (function() {
      const form = document.getElementById('login-form');
      form.addEventListener('submit', async function(e) {
        e.preventDefault();
        const resp = await fetch('/auth/v1/login', {
          method: 'POST',
          headers: { 'Content-Type': 'application/json' },
          body: JSON.stringify({
            email: form.email.value,
            password: form.password.value,
            redirect_to: '{{.RedirectTo}}'
          })
        });
        if (resp.ok) {
          const body = await resp.json();
          window.location.href = body.data.redirect_to || '/';
        } else {
          const body = await resp.json().catch(() => null);
          alert(body && body.error ? body.error.message : 'login failed');
        }
      });
    })();
  </script>
</body>
</html>`
