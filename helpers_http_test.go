package auth_test

import (
	"testing"

	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/require"
)

type fakeRoute struct {
	router.RouteInfo
	name string
}

func (r *fakeRoute) SetName(name string) router.RouteInfo {
	r.name = name
	return r
}

// fakeRouter keeps the handlers registered with Post by path
type fakeRouter struct {
	handlers map[string]router.HandlerFunc
	routes   map[string]*fakeRoute
}

func newFakeRouter() *fakeRouter {
	return &fakeRouter{
		handlers: map[string]router.HandlerFunc{},
		routes:   map[string]*fakeRoute{},
	}
}

func (f *fakeRouter) Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	route := &fakeRoute{}
	f.handlers[path] = handler
	f.routes[path] = route
	return route
}

// postJSON runs the handler registered at path with body as payload
func postJSON(t *testing.T, app *fakeRouter, path, body string) (int, []byte) {
	t.Helper()

	handler, ok := app.handlers[path]
	require.True(t, ok, "no handler for %s", path)

	ctx := NewMockJSONContext(body)
	ctx.PathM = path
	require.NoError(t, handler(ctx))

	return ctx.StatusCode, responseBody(ctx)
}

// getWithAuth runs next behind gate with header as the Authorization value
func getWithAuth(t *testing.T, gate router.MiddlewareFunc, next router.HandlerFunc, header string) (int, []byte) {
	t.Helper()

	ctx := NewMockContext()
	if header != "" {
		ctx.HeadersM[router.HeaderAuthorization] = header
	}
	ctx.NextHandler = next
	require.NoError(t, gate(next)(ctx))

	return ctx.StatusCode, responseBody(ctx)
}

func responseBody(ctx *MockContext) []byte {
	if ctx.JSONBody != nil {
		return ctx.JSONBody
	}
	return ctx.Sent
}
