package s3

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestPresignGetSignsOffline(t *testing.T) {
	client, err := NewClient(Config{
		Endpoint:  "localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
		Region:    "us-east-1",
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	storage := NewAvatarStorage(client, " naranja-avatars ")

	raw, err := storage.PresignGet(context.Background(), "/avatars/u1.jpg", 0)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if !strings.HasSuffix(parsed.Path, "/naranja-avatars/avatars/u1.jpg") {
		t.Fatalf("unexpected path: %s", parsed.Path)
	}
	if got := parsed.Query().Get("X-Amz-Expires"); got != "600" {
		t.Fatalf("unexpected expiry: %s", got)
	}

	raw, err = storage.PresignGet(context.Background(), "avatars/u1.jpg", time.Minute)
	if err != nil {
		t.Fatalf("presign with ttl: %v", err)
	}
	if !strings.Contains(raw, "X-Amz-Expires=60") {
		t.Fatalf("explicit ttl not applied: %s", raw)
	}
}

func TestPresignGetValidates(t *testing.T) {
	if _, err := NewAvatarStorage(nil, "b").PresignGet(context.Background(), "k", 0); err == nil {
		t.Fatalf("expected error without client")
	}

	client, err := NewClient(Config{Endpoint: "localhost:9000", Region: "us-east-1"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := NewAvatarStorage(client, "b").PresignGet(context.Background(), "  ", 0); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
	if _, err := NewClient(Config{}); err == nil {
		t.Fatalf("expected error without endpoint")
	}
}

func TestSplitEndpoint(t *testing.T) {
	cases := []struct {
		raw      string
		useSSL   bool
		endpoint string
		secure   bool
	}{
		{raw: "localhost:9000", endpoint: "localhost:9000"},
		{raw: "localhost:9000", useSSL: true, endpoint: "localhost:9000", secure: true},
		{raw: "https://s3.example.com/", endpoint: "s3.example.com", secure: true},
		{raw: " http://minio:9000 ", useSSL: true, endpoint: "minio:9000"},
	}
	for _, tc := range cases {
		endpoint, secure := splitEndpoint(tc.raw, tc.useSSL)
		if endpoint != tc.endpoint || secure != tc.secure {
			t.Fatalf("splitEndpoint(%q, %v) = %q, %v", tc.raw, tc.useSSL, endpoint, secure)
		}
	}
}
