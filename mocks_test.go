package auth_test

import (
	"context"
	"encoding/json"
	"net/http"

	auth "github.com/goliatone/go-bearer-auth"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUsers implements auth.UserStore
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) Register(ctx context.Context, email, password string) (*auth.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) FindByEmail(ctx context.Context, email string, columns ...string) (*auth.User, error) {
	args := m.Called(ctx, email, columns)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) FindByID(ctx context.Context, id string, excludeColumns ...string) (*auth.User, error) {
	args := m.Called(ctx, id, excludeColumns)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

// MockProfiles implements auth.ProfileProvider
type MockProfiles struct {
	mock.Mock
}

func (m *MockProfiles) CreateForUser(ctx context.Context, userID uuid.UUID) (any, error) {
	args := m.Called(ctx, userID)
	return args.Get(0), args.Error(1)
}

func (m *MockProfiles) GetForUser(ctx context.Context, userID uuid.UUID) (any, error) {
	args := m.Called(ctx, userID)
	return args.Get(0), args.Error(1)
}

// routerContext aliases router.Context so the embedded field name does not
// collide with the Context() method below.
type routerContext = router.Context

// MockContext records what handlers write to a router.Context.
// Methods not overridden here are left to the nil embedded interface.
type MockContext struct {
	routerContext
	NextCalled  bool
	NextHandler router.HandlerFunc
	HeadersM    map[string]string
	LocalsM     map[any]any
	BodyM       []byte
	PathM       string
	StatusCode  int
	Sent        []byte
	JSONBody    []byte
	std         context.Context
}

func NewMockContext() *MockContext {
	return &MockContext{
		HeadersM: map[string]string{},
		LocalsM:  map[any]any{},
		PathM:    "/",
		std:      context.Background(),
	}
}

// NewMockJSONContext returns a context carrying body as the request payload
func NewMockJSONContext(body string) *MockContext {
	m := NewMockContext()
	m.BodyM = []byte(body)
	return m
}

func (m *MockContext) Next() error {
	m.NextCalled = true
	if m.NextHandler != nil {
		return m.NextHandler(m)
	}
	return nil
}

func (m *MockContext) Context() context.Context {
	return m.std
}

func (m *MockContext) SetContext(ctx context.Context) {
	m.std = ctx
}

func (m *MockContext) Path() string {
	return m.PathM
}

func (m *MockContext) Header(key string) string {
	return m.HeadersM[key]
}

func (m *MockContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		m.LocalsM[key] = value[0]
		return value[0]
	}
	return m.LocalsM[key]
}

func (m *MockContext) Bind(i any) error {
	return json.Unmarshal(m.BodyM, i)
}

func (m *MockContext) Status(code int) router.Context {
	m.StatusCode = code
	return m
}

func (m *MockContext) Send(b []byte) error {
	if m.StatusCode == 0 {
		m.StatusCode = http.StatusOK
	}
	m.Sent = b
	return nil
}

func (m *MockContext) JSON(code int, val any) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	m.StatusCode = code
	m.JSONBody = raw
	return nil
}
