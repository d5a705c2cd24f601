package apiapp

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	authsvc "github.com/ivankudzin/naranja/internal/services/auth"
	limitssvc "github.com/ivankudzin/naranja/internal/services/limits"
	ratesvc "github.com/ivankudzin/naranja/internal/services/rate"
)

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	svc := authsvc.NewService(authsvc.NewJWTManager("secret", time.Minute), nil)
	mw := AuthMiddleware(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	req.Header.Set("Authorization", "Basic abc")
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called without bearer token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareRejectsInvalidToken(t *testing.T) {
	svc := authsvc.NewService(authsvc.NewJWTManager("secret", time.Minute), nil)
	mw := AuthMiddleware(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called on invalid token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareSetsIdentity(t *testing.T) {
	jwtManager := authsvc.NewJWTManager("secret", time.Minute)
	svc := authsvc.NewService(jwtManager, nil)
	mw := AuthMiddleware(svc, zap.NewNop())

	token, _, err := jwtManager.GenerateAccessToken("u-42", true)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := authsvc.IdentityFromContext(r.Context())
		if !ok {
			t.Fatalf("identity missing in context")
		}
		if identity.UserID != "u-42" || !identity.IsPremium || identity.TokenID == "" {
			t.Fatalf("unexpected identity: %+v", identity)
		}
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := map[string]bool{
		"Bearer abc":  true,
		"bearer abc":  true,
		"Bearer ":     false,
		"abc":         false,
		"Token abc":   false,
		"  Bearer x ": true,
	}
	for header, want := range cases {
		if _, ok := extractBearerToken(header); ok != want {
			t.Fatalf("extractBearerToken(%q) = %v, want %v", header, ok, want)
		}
	}
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	limiter := ratesvc.NewLimiter(limitssvc.NewMemoryCounter(), 0, 1)
	mw := RateLimitMiddleware(limiter, "likes", zap.NewNop())
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/likes", nil)
		req = req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{UserID: "u1"}))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	if rr := call(); rr.Code != http.StatusNoContent {
		t.Fatalf("first call: got %d want %d", rr.Code, http.StatusNoContent)
	}
	rr := call()
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second call: got %d want %d", rr.Code, http.StatusTooManyRequests)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}
