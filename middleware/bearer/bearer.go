package bearer

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-router"
)

var (
	// ErrMissingOrMalformed is returned when the header is absent or
	// does not start with the auth scheme
	ErrMissingOrMalformed = errors.New("missing or malformed bearer token")
	// ErrSubjectNotFound is returned when the loader has no record for the subject
	ErrSubjectNotFound = errors.New("token subject not found")
)

// TokenVerifier interface for verifying tokens without import cycles
// This mirrors the TokenService.Verify method from the auth package
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// UserLoader resolves the token subject into the value stored for downstream handlers
type UserLoader func(ctx context.Context, subject string) (any, error)

type Config struct {
	// Filter skips the middleware when it returns true
	Filter         func(router.Context) bool
	SuccessHandler router.HandlerFunc
	ErrorHandler   router.ErrorHandler
	// ContextKey is the locals key for the loaded user
	ContextKey string
	// Header holds the token, defaults to Authorization
	Header string
	// AuthScheme is matched case sensitive followed by one space
	AuthScheme string
	Verifier   TokenVerifier
	UserLoader UserLoader
	// ContextEnricher is an optional function to propagate the user to the
	// standard Go context.
	ContextEnricher func(ctx context.Context, user any) context.Context
}

func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			raw, err := ExtractToken(ctx.Header(cfg.Header), cfg.AuthScheme)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			subject, err := cfg.Verifier.Verify(ctx.Context(), raw)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			user, err := cfg.UserLoader(ctx.Context(), subject)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			if user == nil {
				return cfg.ErrorHandler(ctx, ErrSubjectNotFound)
			}

			ctx.Locals(cfg.ContextKey, user)

			if cfg.ContextEnricher != nil {
				ctx.SetContext(cfg.ContextEnricher(ctx.Context(), user))
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

// ExtractToken strips the auth scheme from a header value
func ExtractToken(header, scheme string) (string, error) {
	prefix := scheme + " "
	if header == "" || !strings.HasPrefix(header, prefix) {
		return "", ErrMissingOrMalformed
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix)), nil
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx router.Context, err error) error {
			return ctx.Status(http.StatusUnauthorized).Send(nil)
		}
	}

	if cfg.Verifier == nil {
		panic("AUTH: bearer middleware configuration: Verifier is required.")
	}

	if cfg.UserLoader == nil {
		panic("AUTH: bearer middleware configuration: UserLoader is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.Header == "" {
		cfg.Header = router.HeaderAuthorization
	}

	cfg.AuthScheme = strings.TrimSpace(cfg.AuthScheme)
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}
