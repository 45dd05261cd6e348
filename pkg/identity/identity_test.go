package identity_test

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/JaimeStill/sweep/pkg/identity"
)

const (
	testIssuer   = "https://id.example.com"
	testClientID = "sweep-mobile"
)

func signToken(t *testing.T, key *rsa.PrivateKey, claims map[string]any) string {
	t.Helper()

	enc := func(v any) string {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return base64.RawURLEncoding.EncodeToString(b)
	}

	signingInput := enc(map[string]string{"alg": "RS256", "typ": "JWT"}) + "." + enc(claims)
	digest := sha256.Sum256([]byte(signingInput))

	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	return signingInput + "." + base64.RawURLEncoding.EncodeToString(sig)
}

func baseClaims(overrides map[string]any) map[string]any {
	claims := map[string]any{
		"iss":            testIssuer,
		"aud":            testClientID,
		"sub":            "user-1",
		"exp":            time.Now().Add(time.Hour).Unix(),
		"iat":            time.Now().Unix(),
		"email":          "Reporter@Example.com",
		"email_verified": true,
	}
	for k, v := range overrides {
		if v == nil {
			delete(claims, k)
			continue
		}
		claims[k] = v
	}
	return claims
}

func newVerifier(t *testing.T) (identity.Verifier, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	cfg := &identity.Config{Issuer: testIssuer, ClientID: testClientID}
	keys := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}

	return identity.NewWithKeySet(cfg, keys), key
}

func TestVerify(t *testing.T) {
	v, key := newVerifier(t)
	other, _ := rsa.GenerateKey(rand.Reader, 2048)

	tests := []struct {
		name      string
		token     string
		wantEmail string
		wantErr   error
	}{
		{
			name:      "valid token normalizes email",
			token:     signToken(t, key, baseClaims(nil)),
			wantEmail: "reporter@example.com",
		},
		{
			name:      "missing email_verified is accepted",
			token:     signToken(t, key, baseClaims(map[string]any{"email_verified": nil})),
			wantEmail: "reporter@example.com",
		},
		{
			name:    "unverified email",
			token:   signToken(t, key, baseClaims(map[string]any{"email_verified": false})),
			wantErr: identity.ErrUnverifiedEmail,
		},
		{
			name:    "missing email",
			token:   signToken(t, key, baseClaims(map[string]any{"email": nil})),
			wantErr: identity.ErrMissingEmail,
		},
		{
			name:    "wrong audience",
			token:   signToken(t, key, baseClaims(map[string]any{"aud": "someone-else"})),
			wantErr: identity.ErrInvalidToken,
		},
		{
			name:    "expired",
			token:   signToken(t, key, baseClaims(map[string]any{"exp": time.Now().Add(-time.Hour).Unix()})),
			wantErr: identity.ErrInvalidToken,
		},
		{
			name:    "foreign signature",
			token:   signToken(t, other, baseClaims(nil)),
			wantErr: identity.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := v.Verify(context.Background(), tt.token)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if id.Email != tt.wantEmail {
				t.Errorf("email = %s, want %s", id.Email, tt.wantEmail)
			}
			if id.Subject != "user-1" {
				t.Errorf("subject = %s, want user-1", id.Subject)
			}
		})
	}
}

type stubVerifier struct {
	id  identity.Identity
	err error
}

func (s stubVerifier) Verify(context.Context, string) (identity.Identity, error) {
	return s.id, s.err
}

func TestMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := identity.FromContext(r.Context()); ok {
			w.Write([]byte(id.Email))
			return
		}
		w.Write([]byte("anonymous"))
	})

	tests := []struct {
		name       string
		verifier   identity.Verifier
		header     string
		wantStatus int
		wantBody   string
	}{
		{"no header", stubVerifier{}, "", http.StatusOK, "anonymous"},
		{"valid token", stubVerifier{id: identity.Identity{Email: "a@x.com"}}, "Bearer token", http.StatusOK, "a@x.com"},
		{"invalid token", stubVerifier{err: identity.ErrInvalidToken}, "Bearer token", http.StatusUnauthorized, ""},
		{"wrong scheme", stubVerifier{}, "Basic abc", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := identity.Middleware(tt.verifier, logger)(echo)

			req := httptest.NewRequest("GET", "/reports", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		var cfg identity.Config
		if err := cfg.Finalize(nil); err != nil || cfg.Enabled() {
			t.Errorf("enabled=%v err=%v", cfg.Enabled(), err)
		}
	})

	t.Run("issuer requires client and jwks", func(t *testing.T) {
		cfg := identity.Config{Issuer: testIssuer}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("complete", func(t *testing.T) {
		cfg := identity.Config{Issuer: testIssuer, ClientID: testClientID, JWKSURL: testIssuer + "/keys"}
		if err := cfg.Finalize(nil); err != nil {
			t.Errorf("Finalize: %v", err)
		}
	})
}
