package middleware

import (
	"context"

	"github.com/loginbase/auth-gateway/internal/application/auth"
)

type ctxKey string

const ctxSession ctxKey = "session"

func WithSession(ctx context.Context, view auth.SessionView) context.Context {
	return context.WithValue(ctx, ctxSession, view)
}

func SessionFromContext(ctx context.Context) (auth.SessionView, bool) {
	v, ok := ctx.Value(ctxSession).(auth.SessionView)
	return v, ok && v.ID != ""
}
