package auth

import (
	"context"
	"net/http"

	"github.com/goliatone/go-bearer-auth/middleware/bearer"
	"github.com/goliatone/go-router"
)

type RouteAuthenticator struct {
	auth   *Auther
	cfg    Config
	Logger Logger
	// ErrorHandler answers rejected requests, defaults to 401 without body
	ErrorHandler func(c router.Context, err error) error
}

func NewHTTPAuthenticator(auther *Auther, cfg Config) *RouteAuthenticator {
	a := &RouteAuthenticator{
		auth:   auther,
		cfg:    cfg,
		Logger: defLogger{},
	}

	a.ErrorHandler = a.defaultErrHandler

	return a
}

func (a *RouteAuthenticator) WithLogger(logger Logger) *RouteAuthenticator {
	if logger != nil {
		a.Logger = logger
	}
	return a
}

// ProtectedRoute returns the request gate. Requests without a valid
// bearer token for an existing user are rejected before reaching the
// next handler.
func (a *RouteAuthenticator) ProtectedRoute(filters ...func(router.Context) bool) router.MiddlewareFunc {
	cfg := bearer.Config{
		ErrorHandler: a.ErrorHandler,
		ContextKey:   a.cfg.GetContextKey(),
		AuthScheme:   a.cfg.GetAuthScheme(),
		Verifier:     a.auth.TokenService(),
		UserLoader: func(ctx context.Context, subject string) (any, error) {
			return a.auth.UserFromSubject(ctx, subject)
		},
		ContextEnricher: func(ctx context.Context, user any) context.Context {
			if u, ok := user.(*User); ok {
				return WithContext(ctx, u)
			}
			return ctx
		},
	}

	if len(filters) > 0 {
		cfg.Filter = func(c router.Context) bool {
			for _, f := range filters {
				if f != nil && f(c) {
					return true
				}
			}
			return false
		}
	}

	return bearer.New(cfg)
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	a.Logger.Debug("Request gate rejected request", "error", err, "path", c.Path())
	return c.Status(http.StatusUnauthorized).Send(nil)
}
