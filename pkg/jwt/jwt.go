package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	headerType      = "JWT"
	headerAlgorithm = "HS256"

	// DefaultTTL is the lifetime of tokens issued by FromSubject.
	DefaultTTL = time.Hour
)

type header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// Option configures a Service.
type Option func(*Service)

// WithTTL sets the lifetime of tokens issued by FromSubject.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithIssuer sets the "iss" claim of issued tokens.
func WithIssuer(iss string) Option {
	return func(s *Service) { s.issuer = iss }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service signs and verifies HS256 tokens.
type Service struct {
	key    []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// New creates a Service. The key should be at least 32 bytes.
func New(key []byte, opts ...Option) (*Service, error) {
	if len(key) == 0 {
		return nil, ErrMissingSigningKey
	}
	s := &Service{key: key, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewFromString is New for string keys.
func NewFromString(key string, opts ...Option) (*Service, error) {
	return New([]byte(key), opts...)
}

// TTL returns the lifetime of issued tokens.
func (s *Service) TTL() time.Duration { return s.ttl }

// FromSubject issues a token for sub.
func (s *Service) FromSubject(sub Subject) (string, error) {
	if sub == nil {
		return "", ErrMissingSubject
	}
	id := sub.JWTIdentifier()
	if id == "" {
		return "", ErrMissingSubject
	}

	claims := make(Claims)
	maps.Copy(claims, sub.JWTCustomClaims())

	now := s.now()
	claims[ClaimSubject] = id
	claims[ClaimID] = uuid.NewString()
	claims[ClaimIssuedAt] = now.Unix()
	claims[ClaimNotBefore] = now.Unix()
	claims[ClaimExpiresAt] = now.Add(s.ttl).Unix()
	if s.issuer != "" {
		claims[ClaimIssuer] = s.issuer
	}
	return s.Generate(claims)
}

// Generate signs any JSON-serialisable claims value.
func (s *Service) Generate(claims any) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}

	headerJSON, err := json.Marshal(header{Type: headerType, Algorithm: headerAlgorithm})
	if err != nil {
		return "", fmt.Errorf("jwt: marshal header: %w", err)
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("jwt: marshal claims: %w", err)
	}

	payload := encode(headerJSON) + "." + encode(claimsJSON)
	return payload + "." + s.sign(payload), nil
}

// Parse verifies token and decodes its payload into claims. When claims has a
// Valid() error method it is called after decoding.
func (s *Service) Parse(token string, claims any) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ErrInvalidToken
	}

	payload := parts[0] + "." + parts[1]
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(s.sign(payload))) != 1 {
		return ErrInvalidSignature
	}

	headerJSON, err := decode(parts[0])
	if err != nil {
		return errors.Join(ErrInvalidToken, err)
	}
	var h header
	if err := json.Unmarshal(headerJSON, &h); err != nil {
		return errors.Join(ErrInvalidToken, err)
	}
	if h.Algorithm != headerAlgorithm {
		return ErrUnexpectedSigningMethod
	}

	claimsJSON, err := decode(parts[1])
	if err != nil {
		return errors.Join(ErrInvalidToken, err)
	}
	if err := json.Unmarshal(claimsJSON, claims); err != nil {
		return errors.Join(ErrInvalidToken, err)
	}

	if c, ok := claims.(*Claims); ok {
		return c.validAt(s.now())
	}
	if v, ok := claims.(interface{ Valid() error }); ok {
		return v.Valid()
	}
	return nil
}

// ParseClaims verifies token and returns its payload.
func (s *Service) ParseClaims(token string) (Claims, error) {
	claims := make(Claims)
	if err := s.Parse(token, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *Service) sign(payload string) string {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(payload))
	return encode(h.Sum(nil))
}

func encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func decode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
