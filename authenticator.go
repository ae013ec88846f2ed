package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// passwordColumns is the projection used when checking credentials
var passwordColumns = []string{"id", "email", "password_hash"}

type Auther struct {
	users        UserStore
	profiles     ProfileProvider
	tokenService TokenService
	logger       Logger
	activitySink ActivitySink
}

// NewAuthenticator returns a new Auther
func NewAuthenticator(users UserStore, profiles ProfileProvider, opts Config) *Auther {
	if profiles == nil {
		profiles = noopProfileProvider{}
	}

	return &Auther{
		users:        users,
		profiles:     profiles,
		tokenService: NewTokenServiceFromConfig(opts, defLogger{}),
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger == nil {
		return s
	}
	s.logger = logger
	if ts, ok := s.tokenService.(*TokenServiceImpl); ok {
		ts.logger = logger
	}
	return s
}

// WithTokenService replaces the token service built from Config
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Signup registers a user and returns a token for it
func (s *Auther) Signup(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.Register(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		s.logger.Error("Signup register user error", "error", err)
		s.emitAuthEvent(ctx, ActivityEventSignupFailure, ActorRef{Type: "unknown"}, "", map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return nil, internal(err, "failed to register user")
	}

	types, err := s.profiles.CreateForUser(ctx, user.ID)
	if err != nil {
		s.logger.Error("Signup create types error", "error", err, "user_id", user.ID.String())
		s.emitAuthEvent(ctx, ActivityEventSignupFailure, actorFromUser(user), user.ID.String(), map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return nil, internal(err, "failed to create user types")
	}

	token, err := s.tokenService.Issue(user.ID.String())
	if err != nil {
		s.logger.Error("Signup issue token error", "error", err, "user_id", user.ID.String())
		return nil, internal(err, "failed to issue token")
	}

	s.emitAuthEvent(ctx, ActivityEventSignupSuccess, actorFromUser(user), user.ID.String(), map[string]any{
		"email": user.Email,
	})

	return &AuthResult{
		Token: token,
		Email: user.Email,
		Types: types,
	}, nil
}

// Signin checks the credentials and returns a token for the user.
// Unknown emails and wrong passwords both fail with ErrInvalidCredentials.
func (s *Auther) Signin(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.FindByEmail(ctx, email, passwordColumns...)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.loginFailed(ctx, nil, email, err)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Signin find user error", "error", err)
		return nil, internal(err, "failed to retrieve user")
	}

	if user == nil {
		s.loginFailed(ctx, nil, email, ErrUserNotFound)
		return nil, ErrInvalidCredentials
	}

	match, err := user.CheckPassword(password)
	if err != nil {
		s.logger.Error("Signin check password error", "error", err, "user_id", user.ID.String())
		return nil, internal(err, "failed to check password")
	}

	if !match {
		s.loginFailed(ctx, user, email, ErrMismatchedHashAndPassword)
		return nil, ErrInvalidCredentials
	}

	types, err := s.profiles.GetForUser(ctx, user.ID)
	if err != nil {
		s.logger.Error("Signin get types error", "error", err, "user_id", user.ID.String())
		return nil, internal(err, "failed to retrieve user types")
	}

	token, err := s.tokenService.Issue(user.ID.String())
	if err != nil {
		s.logger.Error("Signin issue token error", "error", err, "user_id", user.ID.String())
		return nil, internal(err, "failed to issue token")
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, actorFromUser(user), user.ID.String(), map[string]any{
		"email": email,
	})

	return &AuthResult{
		Token: token,
		Email: user.Email,
		Types: types,
	}, nil
}

// Authenticate verifies a raw token and loads the user it was issued for
func (s *Auther) Authenticate(ctx context.Context, token string) (*User, error) {
	subject, err := s.tokenService.Verify(ctx, strings.TrimSpace(token))
	if err != nil {
		return nil, ErrInvalidToken
	}

	return s.UserFromSubject(ctx, subject)
}

// UserFromSubject loads the user referenced by a token subject without
// its password hash
func (s *Auther) UserFromSubject(ctx context.Context, subject string) (*User, error) {
	user, err := s.users.FindByID(ctx, subject, "password_hash")
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrIdentityNotFound
		}
		s.logger.Error("UserFromSubject find user error", "error", err)
		return nil, internal(err, "failed to retrieve user")
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	user.PasswordHash = ""

	return user, nil
}

func (s *Auther) loginFailed(ctx context.Context, user *User, email string, cause error) {
	actor := ActorRef{Type: "unknown"}
	userID := ""
	if user != nil {
		actor = actorFromUser(user)
		userID = user.ID.String()
	}

	s.emitAuthEvent(ctx, ActivityEventLoginFailure, actor, userID, map[string]any{
		"email": email,
		"error": cause.Error(),
	})
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, actor ActorRef, userID string, metadata map[string]any) {
	sink := normalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType:  eventType,
		Actor:      actor,
		UserID:     userID,
		Metadata:   metadata,
		OccurredAt: time.Now(),
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error", "error", err)
	}
}

func actorFromUser(user *User) ActorRef {
	if user == nil {
		return ActorRef{Type: "unknown"}
	}

	return ActorRef{
		ID:   user.ID.String(),
		Type: "user",
	}
}

func internal(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, msg).
		WithCode(goerrors.CodeInternal)
}
