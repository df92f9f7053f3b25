package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	contractx "github.com/supportlab/triage-agent/agent/contract"
)

func TestAccessToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "client_credentials" {
			t.Fatalf("grant_type = %q", r.PostForm.Get("grant_type"))
		}
		if r.PostForm.Get("client_id") != "client-1" || r.PostForm.Get("client_secret") != "secret-1" {
			t.Fatalf("credentials not in form body: %v", r.PostForm)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"tok-123","token_type":"Bearer","expires_in":3600}`)
	}))
	t.Cleanup(server.Close)

	client := NewTokenClient(TokenConfig{
		TokenURL:     server.URL,
		ClientID:     "client-1",
		ClientSecret: "secret-1",
	})

	token, err := client.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("AccessToken() error = %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("token = %q, want tok-123", token)
	}
}

func TestAccessTokenMissingConfiguration(t *testing.T) {
	t.Parallel()

	for _, cfg := range []TokenConfig{
		{},
		{TokenURL: "https://auth.example.com/token", ClientID: "id"},
		{TokenURL: "https://auth.example.com/token", ClientSecret: "secret"},
		{ClientID: "id", ClientSecret: "secret"},
	} {
		client := NewTokenClient(cfg)
		_, err := client.AccessToken(context.Background())
		if !errors.Is(err, contractx.ErrConfiguration) {
			t.Fatalf("AccessToken(%+v) error = %v, want ErrConfiguration", cfg, err)
		}
	}
}

func TestAccessTokenRejected(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"invalid_client"}`)
	}))
	t.Cleanup(server.Close)

	client := NewTokenClient(TokenConfig{
		TokenURL:     server.URL,
		ClientID:     "client-1",
		ClientSecret: "wrong",
	})

	_, err := client.AccessToken(context.Background())
	if !errors.Is(err, contractx.ErrAuth) {
		t.Fatalf("AccessToken() error = %v, want ErrAuth", err)
	}
}

func TestAccessTokenMissingFieldInResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"token_type":"Bearer"}`)
	}))
	t.Cleanup(server.Close)

	client := NewTokenClient(TokenConfig{
		TokenURL:     server.URL,
		ClientID:     "client-1",
		ClientSecret: "secret-1",
	})

	_, err := client.AccessToken(context.Background())
	if !errors.Is(err, contractx.ErrAuth) {
		t.Fatalf("AccessToken() error = %v, want ErrAuth", err)
	}
}
