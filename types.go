package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenTTL() time.Duration
	GetIssuer() string
	GetAudience() []string
	GetContextKey() string
	GetAuthScheme() string
}

// TokenService issues and verifies signed session tokens
type TokenService interface {
	Issue(userID string) (string, error)
	Verify(ctx context.Context, token string) (string, error)
}

// UserStore is the persistence collaborator for users.
// Lookups return ErrUserNotFound when no record matches.
type UserStore interface {
	Register(ctx context.Context, email, password string) (*User, error)
	FindByEmail(ctx context.Context, email string, columns ...string) (*User, error)
	FindByID(ctx context.Context, id string, excludeColumns ...string) (*User, error)
}

// ProfileProvider provides the auxiliary data returned next to a token
type ProfileProvider interface {
	CreateForUser(ctx context.Context, userID uuid.UUID) (any, error)
	GetForUser(ctx context.Context, userID uuid.UUID) (any, error)
}

// AuthResult is the payload returned after a successful signup or signin
type AuthResult struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Types any    `json:"types"`
}

type noopProfileProvider struct{}

func (noopProfileProvider) CreateForUser(context.Context, uuid.UUID) (any, error) {
	return []any{}, nil
}

func (noopProfileProvider) GetForUser(context.Context, uuid.UUID) (any, error) {
	return []any{}, nil
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Println(line("ERR", format, args...))
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Println(line("WRN", format, args...))
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Println(line("INF", format, args...))
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Println(line("DBG", format, args...))
}

func line(level, msg string, args ...any) string {
	out := fmt.Sprintf("[%s] AUTH %s", level, msg)
	for i := 0; i+1 < len(args); i += 2 {
		out += fmt.Sprintf(" %v=%v", args[i], args[i+1])
	}
	if len(args)%2 == 1 {
		out += fmt.Sprintf(" %v", args[len(args)-1])
	}
	return out
}
