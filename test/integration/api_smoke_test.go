package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ivankudzin/naranja/internal/app/apiapp"
	"github.com/ivankudzin/naranja/internal/config"
	authsvc "github.com/ivankudzin/naranja/internal/services/auth"
)

type smoke struct {
	t   *testing.T
	srv *httptest.Server
	jwt *authsvc.JWTManager
}

func newSmoke(t *testing.T) smoke {
	t.Helper()

	cfg := config.Default()
	cfg.HTTP.Addr = ":0"
	cfg.Store.Driver = config.StoreDriverMemory
	cfg.Limits.Store = config.LimitsStoreMemory
	cfg.S3.Endpoint = ""
	cfg.Auth.JWTSecret = "smoke-secret"

	app, err := apiapp.New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("create app: %v", err)
	}

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)

	return smoke{t: t, srv: srv, jwt: authsvc.NewJWTManager(cfg.Auth.JWTSecret, time.Hour)}
}

func (s smoke) token(userID string) string {
	s.t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(userID, false)
	if err != nil {
		s.t.Fatalf("generate token: %v", err)
	}
	return token
}

func (s smoke) do(method, path, token string, body any, out any) int {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.srv.URL+path, reader)
	if err != nil {
		s.t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		s.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			s.t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	s := newSmoke(t)

	var payload struct {
		OK bool `json:"ok"`
	}
	if code := s.do(http.MethodGet, "/healthz", "", nil, &payload); code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", code, http.StatusOK)
	}
	if !payload.OK {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestV1RequiresBearer(t *testing.T) {
	s := newSmoke(t)

	if code := s.do(http.MethodGet, "/v1/feed", "", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", code, http.StatusUnauthorized)
	}
}

func TestMutualLikeOpensChat(t *testing.T) {
	s := newSmoke(t)
	ana, bruno := s.token("ana"), s.token("bruno")

	profile := func(name, gender string) map[string]any {
		return map[string]any{
			"display_name":     name,
			"gender":           gender,
			"orientation":      "heterosexual",
			"accepts_matching": true,
			"birth_date":       "1995-04-02",
		}
	}
	if code := s.do(http.MethodPut, "/v1/profile", ana, profile("Ana", "female"), nil); code != http.StatusOK {
		t.Fatalf("save ana profile: %d", code)
	}
	if code := s.do(http.MethodPut, "/v1/profile", bruno, profile("Bruno", "male"), nil); code != http.StatusOK {
		t.Fatalf("save bruno profile: %d", code)
	}

	var feed struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	if code := s.do(http.MethodGet, "/v1/feed", ana, nil, &feed); code != http.StatusOK {
		t.Fatalf("feed status: %d", code)
	}
	if len(feed.Items) != 1 || feed.Items[0].ID != "bruno" {
		t.Fatalf("unexpected feed: %+v", feed)
	}

	if code := s.do(http.MethodPost, "/v1/channels/direct", ana, map[string]string{"user_id": "bruno"}, nil); code != http.StatusForbidden {
		t.Fatalf("direct channel before match: got %d want %d", code, http.StatusForbidden)
	}

	var first struct {
		Matched bool `json:"matched"`
	}
	if code := s.do(http.MethodPost, "/v1/likes", ana, map[string]string{"target_id": "bruno"}, &first); code != http.StatusOK {
		t.Fatalf("first like status: %d", code)
	}
	if first.Matched {
		t.Fatalf("one-sided like must not match")
	}

	var second struct {
		Matched   bool   `json:"matched"`
		ChannelID string `json:"channel_id"`
	}
	if code := s.do(http.MethodPost, "/v1/likes", bruno, map[string]string{"target_id": "ana"}, &second); code != http.StatusOK {
		t.Fatalf("second like status: %d", code)
	}
	if !second.Matched || second.ChannelID == "" {
		t.Fatalf("expected match with channel, got %+v", second)
	}

	var direct struct {
		ChannelID string `json:"channel_id"`
	}
	if code := s.do(http.MethodPost, "/v1/channels/direct", ana, map[string]string{"user_id": "bruno"}, &direct); code != http.StatusOK {
		t.Fatalf("direct channel status: %d", code)
	}
	if direct.ChannelID != second.ChannelID {
		t.Fatalf("direct channel %q differs from match channel %q", direct.ChannelID, second.ChannelID)
	}

	path := "/v1/channels/" + direct.ChannelID + "/messages"
	if code := s.do(http.MethodPost, path, ana, map[string]string{"content": "hola"}, nil); code != http.StatusCreated {
		t.Fatalf("send message status: %d", code)
	}

	var messages struct {
		Items []struct {
			SenderID string `json:"sender_id"`
			Content  string `json:"content"`
		} `json:"items"`
	}
	if code := s.do(http.MethodGet, path, bruno, nil, &messages); code != http.StatusOK {
		t.Fatalf("list messages status: %d", code)
	}
	if len(messages.Items) != 1 || messages.Items[0].Content != "hola" || messages.Items[0].SenderID != "ana" {
		t.Fatalf("unexpected messages: %+v", messages)
	}

	var unmatch struct {
		Unmatched bool `json:"unmatched"`
	}
	if code := s.do(http.MethodPost, "/v1/unmatch", bruno, map[string]string{"target_id": "ana"}, &unmatch); code != http.StatusOK {
		t.Fatalf("unmatch status: %d", code)
	}
	if !unmatch.Unmatched {
		t.Fatalf("expected unmatch to report true")
	}

	var matches struct {
		Items []json.RawMessage `json:"items"`
	}
	if code := s.do(http.MethodGet, "/v1/matches", ana, nil, &matches); code != http.StatusOK {
		t.Fatalf("matches status: %d", code)
	}
	if len(matches.Items) != 0 {
		t.Fatalf("expected no active matches after unmatch, got %d", len(matches.Items))
	}
}
