package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/loginbase/auth-gateway/internal/application/auth"
	"github.com/loginbase/auth-gateway/internal/config"
	"github.com/loginbase/auth-gateway/internal/infrastructure/db/postgres"
	"github.com/loginbase/auth-gateway/internal/infrastructure/memory"
	rabbitmq_pub "github.com/loginbase/auth-gateway/internal/infrastructure/messaging/rabbitmq"
	"github.com/loginbase/auth-gateway/internal/infrastructure/oauth"
	"github.com/loginbase/auth-gateway/internal/infrastructure/redis"
	"github.com/loginbase/auth-gateway/internal/infrastructure/security"
	"github.com/loginbase/auth-gateway/internal/logger"
	http_handlers "github.com/loginbase/auth-gateway/internal/transport/http/handlers"
	"github.com/loginbase/auth-gateway/internal/transport/http/middleware"
	"github.com/loginbase/auth-gateway/internal/transport/http/response"
	"github.com/loginbase/auth-gateway/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing.
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(addr string) (*sql.DB, error)

	NewRedis func(addr string) RedisClient

	NewPublisher func(rabbitURL string) (auth.EventPublisher, error)

	NewRouter func(router.Deps) (http.Handler, error)

	NewOAuthProvider func(cfg *config.Config) auth.OAuthProvider
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 1) db + user repo
	sqlDB, err := deps.NewDB(cfg.DBAddr)
	if err != nil {
		return nil, nil, err
	}

	cleanupFns := []func(){
		func() { _ = sqlDB.Close() },
	}

	userRepo := postgres.NewUserRepo(sqlDB)

	// 2) oauth state store: redis when available, memory otherwise
	var stateStore auth.OAuthStateStore = memory.NewOAuthStateStore(cfg.OAuthStateTTL)
	if cfg.RedisAddr != "" && deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.Ping(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; using in-memory oauth state store")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			if rc, ok := c.(*redis.Client); ok {
				stateStore = redis.NewOAuthStateStore(rc, cfg.OAuthStateTTL)
			}
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 3) sign-in event publisher (best-effort)
	var pub auth.EventPublisher = memory.NewPublisher()
	if cfg.RabbitURL != "" && deps.NewPublisher != nil {
		p, err := deps.NewPublisher(cfg.RabbitURL)
		if err != nil {
			if cfg.Env == "dev" {
				logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using in-memory publisher")
			} else {
				runCleanup(cleanupFns)
				return nil, nil, err
			}
		} else {
			pub = p
			if c, ok := p.(interface{ Close() error }); ok {
				cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			}
		}
	}

	// 4) oauth provider
	var googleClient auth.OAuthProvider
	if deps.NewOAuthProvider != nil {
		googleClient = deps.NewOAuthProvider(cfg)
	} else {
		googleClient = oauth.NewGoogleClient(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURI,
		)
	}

	// 5) security
	hasher := security.NewBcryptHasher(12)
	codec := security.NewJWTSessionCodec(cfg.SessionSecret, "auth-gateway")

	// 6) service
	authSvc := auth.NewService(
		userRepo,
		hasher,
		codec,
		stateStore,
		googleClient,
		pub,
		auth.Config{
			SessionTTL:             cfg.SessionTTL,
			PreserveRedirectTarget: cfg.PreserveRedirectTarget,
		},
	)

	authSvc = authSvc.WithAudit(func(action string, fields map[string]string) {
		evt := logger.Logger.Info().
			Bool("audit", true).
			Str("action", action)
		for k, v := range fields {
			evt = evt.Str(k, v)
		}
		evt.Msg("audit")
	})

	// 7) handlers + middleware
	authH := http_handlers.NewAuthHandler(authSvc, cfg.SecureCookies)
	oauthH := http_handlers.NewOAuthHandler(authSvc, cfg.SigninPath, cfg.SecureCookies)
	pagesH := http_handlers.NewPagesHandler()
	healthH := http_handlers.NewHealthHandler(sqlDB)

	sessionMW := middleware.RequireSession(authSvc, response.WriteError)
	pageMW := middleware.RequirePage(authSvc, cfg.SigninPath, cfg.PreserveRedirectTarget)

	// 8) router
	mux, err := deps.NewRouter(router.Deps{
		Health:     healthH,
		Auth:       authH,
		OAuth:      oauthH,
		Pages:      pagesH,
		SessionMW:  sessionMW,
		PageMW:     pageMW,
		SigninPath: cfg.SigninPath,
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 9) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      openDB,
		NewRedis: func(addr string) RedisClient {
			return redis.New(addr, "", 0)
		},
		NewPublisher: func(url string) (auth.EventPublisher, error) {
			return rabbitmq_pub.NewPublisher(url)
		},
		NewRouter: router.New,
	}
}

func openDB(addr string) (*sql.DB, error) {
	db, err := sql.Open("pgx", addr)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
