package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	redrepo "github.com/ivankudzin/naranja/internal/repo/redis"
	authsvc "github.com/ivankudzin/naranja/internal/services/auth"
)

func TestValidateAccessTokenReadsClaims(t *testing.T) {
	jwtManager := authsvc.NewJWTManager("test-secret", 15*time.Minute)
	svc := authsvc.NewService(jwtManager, nil)

	token, _, err := jwtManager.GenerateAccessToken("9b2f4c1e-user", true)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := svc.ValidateAccessToken(context.Background(), token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != "9b2f4c1e-user" || !claims.IsPremium || claims.TokenID == "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateAccessTokenRejectsForeignTokens(t *testing.T) {
	svc := authsvc.NewService(authsvc.NewJWTManager("test-secret", time.Minute), nil)
	ctx := context.Background()

	other, _, err := authsvc.NewJWTManager("other-secret", time.Minute).GenerateAccessToken("u1", false)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := svc.ValidateAccessToken(ctx, other); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("token signed with another secret must be rejected, got %v", err)
	}

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u1"})
	raw, err := noExpiry.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := svc.ValidateAccessToken(ctx, raw); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("token without exp must be rejected, got %v", err)
	}

	noneToken := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	raw, err = noneToken.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}
	if _, err := svc.ValidateAccessToken(ctx, raw); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("unsigned token must be rejected, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	defer func() {
		_ = client.Close()
		mini.Close()
	}()

	jwtManager := authsvc.NewJWTManager("test-secret", 15*time.Minute)
	svc := authsvc.NewService(jwtManager, redrepo.NewRevocationRepo(client))
	ctx := context.Background()

	token, _, err := jwtManager.GenerateAccessToken("u1", false)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	claims, err := svc.ValidateAccessToken(ctx, token)
	if err != nil {
		t.Fatalf("validate before logout: %v", err)
	}

	identity := authsvc.Identity{UserID: claims.UserID, TokenID: claims.TokenID, ExpiresAt: claims.ExpiresAt}
	if err := svc.Logout(ctx, identity); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.ValidateAccessToken(ctx, token); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("access token should be unauthorized after logout, got err=%v", err)
	}

	mini.FastForward(16 * time.Minute)
	if mini.Exists("auth:revoked:" + claims.TokenID) {
		t.Fatalf("revocation entry should expire with the token")
	}
}

func TestValidateAccessTokenAcceptsWhenRevocationStoreIsDown(t *testing.T) {
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr(), MaxRetries: -1})
	defer func() { _ = client.Close() }()

	core, logs := observer.New(zap.WarnLevel)
	jwtManager := authsvc.NewJWTManager("test-secret", 15*time.Minute)
	svc := authsvc.NewService(jwtManager, redrepo.NewRevocationRepo(client))
	svc.AttachLogger(zap.New(core))

	token, _, err := jwtManager.GenerateAccessToken("u1", false)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	mini.Close()

	claims, err := svc.ValidateAccessToken(context.Background(), token)
	if err != nil {
		t.Fatalf("signed token must stay valid while redis is down, got %v", err)
	}
	if claims.UserID != "u1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if logs.FilterMessage("revocation check failed, accepting token").Len() != 1 {
		t.Fatalf("expected one warning about the revocation store, got %v", logs.All())
	}

	if _, err := svc.ValidateAccessToken(context.Background(), "garbage"); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("bad signature must still be rejected, got %v", err)
	}
}
