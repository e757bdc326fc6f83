package middleware_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rangka/lumen/handler"
	"github.com/rangka/lumen/middleware"
)

func newCtx() handler.Context {
	return handler.NewContext(httptest.NewRequest(http.MethodGet, "/", nil))
}

func hello(handler.Context) *handler.Response {
	return handler.Text("Hello World")
}

// shortCircuit mirrors a middleware that answers without calling next.
var shortCircuit = middleware.Func(func(handler.Context, middleware.Next, ...string) *handler.Response {
	return handler.Text("Middleware")
})

var parameterized = middleware.Func(func(_ handler.Context, _ middleware.Next, params ...string) *handler.Response {
	return handler.Text("Middleware - " + strings.Join(params, " - "))
})

type terminating struct{ calls *[]string }

func (m terminating) Handle(ctx handler.Context, next middleware.Next, _ ...string) *handler.Response {
	return next(ctx)
}

func (m terminating) Terminate(_ handler.Context, resp *handler.Response) {
	*m.calls = append(*m.calls, "terminate")
	resp.SetContent("TERMINATED")
}

func recorder(name string, log *[]string) middleware.Middleware {
	return middleware.Func(func(ctx handler.Context, next middleware.Next, _ ...string) *handler.Response {
		*log = append(*log, name+":before")
		resp := next(ctx)
		*log = append(*log, name+":after")
		return resp
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want middleware.Entry
	}{
		{"foo", middleware.Entry{Name: "foo"}},
		{"foo:bar,boom", middleware.Entry{Name: "foo", Params: []string{"bar", "boom"}}},
		{" throttle:60 ", middleware.Entry{Name: "throttle", Params: []string{"60"}}},
		{"foo:", middleware.Entry{Name: "foo"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, middleware.Parse(tt.in), tt.in)
	}
	assert.Equal(t, "foo:bar,boom", middleware.Parse("foo:bar,boom").String())
}

func TestSplit(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{"middleware1", "middleware2", "middleware3", "middleware1"},
		middleware.Split("middleware1", "middleware2|middleware3", "", "middleware1"),
	)
	assert.Equal(t, []string{"passing", "foo:bar,boom"}, middleware.Split("passing|foo:bar,boom"))
}

func TestRegistry_Resolve(t *testing.T) {
	t.Parallel()

	reg := middleware.NewRegistry()
	require.NoError(t, reg.Register("foo", shortCircuit))
	require.ErrorIs(t, reg.Register("", shortCircuit), middleware.ErrEmptyName)
	require.ErrorIs(t, reg.Register("bar", nil), middleware.ErrNilMiddleware)
	assert.True(t, reg.Has("foo"))

	stages, err := reg.Resolve(middleware.ParseAll("foo:a,b|foo"))
	require.NoError(t, err)
	require.Len(t, stages, 2)
	assert.Equal(t, []string{"a", "b"}, stages[0].Params)

	_, err = reg.Resolve(middleware.ParseAll("missing"))
	require.ErrorIs(t, err, middleware.ErrUnknownMiddleware)
}

func TestPipeline_Order(t *testing.T) {
	t.Parallel()

	var log []string
	p := middleware.NewPipeline(nil,
		middleware.Stage{Entry: middleware.Entry{Name: "outer"}, Middleware: recorder("outer", &log)},
		middleware.Stage{Entry: middleware.Entry{Name: "inner"}, Middleware: recorder("inner", &log)},
	)

	resp := p.Then(newCtx(), func(handler.Context) *handler.Response {
		log = append(log, "action")
		return handler.Text("ok")
	})

	assert.Equal(t, "ok", resp.Content())
	assert.Equal(t, []string{"outer:before", "inner:before", "action", "inner:after", "outer:after"}, log)
}

func TestPipeline_ShortCircuitAndParameters(t *testing.T) {
	t.Parallel()

	p := middleware.NewPipeline(nil, middleware.Stage{Middleware: shortCircuit})
	assert.Equal(t, "Middleware", p.Then(newCtx(), hello).Content())

	p = middleware.NewPipeline(nil, middleware.Stage{
		Entry:      middleware.Parse("foo:bar,boom"),
		Middleware: parameterized,
	})
	assert.Equal(t, "Middleware - bar - boom", p.Then(newCtx(), hello).Content())
}

func TestPipeline_RecoversPanics(t *testing.T) {
	t.Parallel()

	var seen int
	outer := middleware.Func(func(ctx handler.Context, next middleware.Next, _ ...string) *handler.Response {
		resp := next(ctx)
		seen = resp.StatusCode()
		return resp
	})
	p := middleware.NewPipeline(handler.NewExceptionHandler(nil, true), middleware.Stage{Middleware: outer})

	resp := p.Then(newCtx(), func(handler.Context) *handler.Response {
		panic("app exception")
	})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
	assert.Equal(t, http.StatusInternalServerError, seen, "outer middleware must receive a response")
	assert.Contains(t, resp.Content(), "app exception")
}

func TestPipeline_NilResponse(t *testing.T) {
	t.Parallel()

	p := middleware.NewPipeline(nil)
	resp := p.Then(newCtx(), func(handler.Context) *handler.Response { return nil })
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
}

func TestTrace_Terminate(t *testing.T) {
	t.Parallel()

	var calls []string
	ctx := newCtx()
	trace := middleware.Attach(ctx, false)
	p := middleware.NewPipeline(nil, middleware.Stage{Middleware: terminating{calls: &calls}})

	resp := p.Then(ctx, hello)
	assert.Equal(t, "Hello World", resp.Content())

	trace.Terminate(ctx, resp, nil)
	assert.Equal(t, "TERMINATED", resp.Content())
	assert.Equal(t, []string{"terminate"}, calls)
	assert.Len(t, trace.Stages(), 1)
}

func TestTrace_Disabled(t *testing.T) {
	t.Parallel()

	var calls []string
	ctx := newCtx()
	trace := middleware.Attach(ctx, true)
	p := middleware.NewPipeline(nil,
		middleware.Stage{Middleware: shortCircuit},
		middleware.Stage{Middleware: terminating{calls: &calls}},
	)

	resp := p.Then(ctx, hello)
	trace.Terminate(ctx, resp, nil)

	assert.Equal(t, "Hello World", resp.Content())
	assert.Empty(t, calls)
	assert.True(t, middleware.TraceFrom(ctx).Disabled())
}

func TestTrace_TerminatePanicIsReported(t *testing.T) {
	t.Parallel()

	ctx := newCtx()
	trace := middleware.Attach(ctx, false)
	middleware.NewPipeline(nil, middleware.Stage{Entry: middleware.Entry{Name: "boom"}, Middleware: panicking{}}).Then(ctx, hello)

	var reported []error
	trace.Terminate(ctx, handler.Text("x"), func(err error) { reported = append(reported, err) })
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], handler.ErrPanic)
}

type panicking struct{}

func (panicking) Handle(ctx handler.Context, next middleware.Next, _ ...string) *handler.Response {
	return next(ctx)
}

func (panicking) Terminate(handler.Context, *handler.Response) { panic("terminate failed") }

func TestFromHTTP(t *testing.T) {
	t.Parallel()

	type key struct{}
	decorate := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Request-ID", "abc")
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), key{}, "tenant")))
		})
	}
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "denied", http.StatusUnauthorized)
		})
	}

	t.Run("decorates request", func(t *testing.T) {
		t.Parallel()
		p := middleware.NewPipeline(nil, middleware.Stage{Middleware: middleware.FromHTTP(decorate)})
		resp := p.Then(newCtx(), func(ctx handler.Context) *handler.Response {
			return handler.Text(fmt.Sprint(ctx.Value(key{})))
		})
		assert.Equal(t, "tenant", resp.Content())
		assert.Equal(t, "abc", resp.Header().Get("X-Request-ID"))
	})

	t.Run("short circuits", func(t *testing.T) {
		t.Parallel()
		p := middleware.NewPipeline(nil, middleware.Stage{Middleware: middleware.FromHTTP(deny)})
		resp := p.Then(newCtx(), hello)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
		assert.Equal(t, "denied\n", resp.Content())
	})
}
