// Package identity verifies OIDC bearer tokens and carries the caller's
// verified email through the request context.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/JaimeStill/sweep/pkg/handlers"
)

var (
	ErrInvalidToken    = errors.New("invalid bearer token")
	ErrUnverifiedEmail = errors.New("token email is not verified")
	ErrMissingEmail    = errors.New("token carries no email claim")
)

// Identity is the verified caller.
type Identity struct {
	Subject string
	Email   string
}

// Verifier validates a raw bearer token.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (Identity, error)
}

type oidcVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// New creates a Verifier that fetches signing keys from cfg.JWKSURL on demand.
// The key set lives for the lifetime of ctx.
func New(ctx context.Context, cfg *Config) Verifier {
	return NewWithKeySet(cfg, oidc.NewRemoteKeySet(ctx, cfg.JWKSURL))
}

// NewWithKeySet creates a Verifier over an explicit key set.
func NewWithKeySet(cfg *Config, keys oidc.KeySet) Verifier {
	return &oidcVerifier{
		verifier: oidc.NewVerifier(cfg.Issuer, keys, &oidc.Config{ClientID: cfg.ClientID}),
	}
}

func (v *oidcVerifier) Verify(ctx context.Context, rawToken string) (Identity, error) {
	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified *bool  `json:"email_verified"`
	}
	if err := token.Claims(&claims); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Email == "" {
		return Identity{}, ErrMissingEmail
	}
	if claims.EmailVerified != nil && !*claims.EmailVerified {
		return Identity{}, ErrUnverifiedEmail
	}

	return Identity{
		Subject: token.Subject,
		Email:   strings.ToLower(strings.TrimSpace(claims.Email)),
	}, nil
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the verified identity, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// Middleware verifies Authorization bearer tokens. Requests without the
// header pass through anonymously; a present but invalid token is rejected
// with 401.
func Middleware(v Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("middleware", "identity")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrInvalidToken)
				return
			}

			id, err := v.Verify(r.Context(), strings.TrimSpace(raw))
			if err != nil {
				handlers.RespondError(w, logger, http.StatusUnauthorized, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
