package jwt

import (
	"net/http"
	"strings"
)

// Extractor pulls a raw token out of a request.
type Extractor func(r *http.Request) (string, error)

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	extractor Extractor
	optional  bool
	onError   func(w http.ResponseWriter, r *http.Request, err error)
}

// WithExtractor replaces the bearer header extractor.
func WithExtractor(e Extractor) MiddlewareOption {
	return func(c *middlewareConfig) {
		if e != nil {
			c.extractor = e
		}
	}
}

// Optional lets requests without a token through unauthenticated. Invalid
// tokens are still rejected.
func Optional() MiddlewareOption {
	return func(c *middlewareConfig) { c.optional = true }
}

// WithErrorHandler replaces the default plain 401 response.
func WithErrorHandler(fn func(w http.ResponseWriter, r *http.Request, err error)) MiddlewareOption {
	return func(c *middlewareConfig) {
		if fn != nil {
			c.onError = fn
		}
	}
}

// Middleware verifies the request's token and stores it with its claims in the
// request context.
func Middleware(svc *Service, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		extractor: BearerExtractor,
		onError: func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := cfg.extractor(r)
			if err != nil {
				if cfg.optional {
					next.ServeHTTP(w, r)
					return
				}
				cfg.onError(w, r, err)
				return
			}

			claims, err := svc.ParseClaims(token)
			if err != nil {
				cfg.onError(w, r, err)
				return
			}

			ctx := WithClaims(WithToken(r.Context(), token), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerExtractor reads "Authorization: Bearer <token>". The scheme is case-insensitive.
func BearerExtractor(r *http.Request) (string, error) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrNoToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// CookieExtractor reads the token from a cookie.
func CookieExtractor(name string) Extractor {
	return func(r *http.Request) (string, error) {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			return "", ErrNoToken
		}
		return c.Value, nil
	}
}

// QueryExtractor reads the token from a query parameter.
func QueryExtractor(param string) Extractor {
	return func(r *http.Request) (string, error) {
		if token := r.URL.Query().Get(param); token != "" {
			return token, nil
		}
		return "", ErrNoToken
	}
}

// ChainExtractors tries each extractor in order and returns the first token found.
func ChainExtractors(extractors ...Extractor) Extractor {
	return func(r *http.Request) (string, error) {
		for _, e := range extractors {
			if token, err := e(r); err == nil {
				return token, nil
			}
		}
		return "", ErrNoToken
	}
}
