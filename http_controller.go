package auth

import (
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RouteRegistrar captures the router methods used by the controller.
type RouteRegistrar interface {
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// RegisterAuthRoutes mounts the signup and signin handlers
func RegisterAuthRoutes(app RouteRegistrar, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Signup, controller.SignUp).
		SetName("sign-up.post")
	app.Post(controller.Routes.Signin, controller.SignIn).
		SetName("sign-in.post")

	return controller
}

type AuthControllerRoutes struct {
	Signup string
	Signin string
}

type AuthController struct {
	Debug  bool
	Logger Logger
	Auther *Auther
	Routes *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerAuther(auther *Auther) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerRoutes(routes *AuthControllerRoutes) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if routes != nil {
			c.Routes = routes
		}
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Signup: "/signup",
			Signin: "/signin",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Auther in auth controller...")
	}

	return c
}

// CredentialsRequest payload
type CredentialsRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r CredentialsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type messageResponse struct {
	Message string `json:"message"`
}

func (a *AuthController) SignUp(ctx router.Context) error {
	payload, err := a.bind(ctx)
	if err != nil {
		return a.respondError(ctx, err)
	}

	res, err := a.Auther.Signup(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return a.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, res)
}

// SignIn answers 201 on success, same as SignUp
func (a *AuthController) SignIn(ctx router.Context) error {
	payload, err := a.bind(ctx)
	if err != nil {
		return a.respondError(ctx, err)
	}

	res, err := a.Auther.Signin(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return a.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, res)
}

func (a *AuthController) bind(ctx router.Context) (*CredentialsRequest, error) {
	payload := new(CredentialsRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Debug("auth payload parse error", "error", err, "path", ctx.Path())
		return nil, ErrMissingCredentials
	}

	payload.Email = strings.TrimSpace(payload.Email)

	if err := payload.Validate(); err != nil {
		a.Logger.Debug("auth payload validation error", "error", err, "path", ctx.Path())
		return nil, ErrMissingCredentials
	}

	if a.Debug {
		a.Logger.Debug("auth payload", "path", ctx.Path(), "payload", print.MaybePrettyJSON(CredentialsRequest{
			Email:    payload.Email,
			Password: "********",
		}))
	}

	return payload, nil
}

func (a *AuthController) respondError(ctx router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	// wrapped store errors keep the inner category, the code marks them internal
	if richErr.Code == goerrors.CodeInternal {
		return a.internalError(ctx, err)
	}

	switch richErr.Category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ctx.JSON(http.StatusBadRequest, messageResponse{Message: richErr.Message})
	case goerrors.CategoryAuth:
		return ctx.JSON(http.StatusUnauthorized, messageResponse{Message: ErrInvalidCredentials.Message})
	default:
		return a.internalError(ctx, err)
	}
}

func (a *AuthController) internalError(ctx router.Context, err error) error {
	a.Logger.Error("auth request failed", "error", err, "path", ctx.Path())
	return ctx.Status(http.StatusInternalServerError).Send(nil)
}
