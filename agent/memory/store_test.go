package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	contractx "github.com/supportlab/triage-agent/agent/contract"
)

func newTestStore(t *testing.T, serverURL string) *Store {
	t.Helper()

	store, err := NewStore(Config{
		URL:      serverURL,
		Token:    "token",
		MemoryID: "support-agent",
	})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func TestLoadRecentUnconfigured(t *testing.T) {
	t.Parallel()

	store, err := NewStore(Config{})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	events := store.LoadRecent(context.Background(), "s-1", "demo-user", 3)
	if len(events) != 0 {
		t.Fatalf("expected no events, got %v", events)
	}
}

func TestLoadRecentDecodesTurns(t *testing.T) {
	t.Parallel()

	var gotCommand []any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&gotCommand); err != nil {
			t.Fatalf("decode command: %v", err)
		}
		fmt.Fprint(w, `{"result":["{\"client_token\":\"t1\",\"role\":\"assistant\",\"content\":\"answer\"}","{\"client_token\":\"t1\",\"role\":\"user\",\"content\":\"question\"}"]}`)
	}))
	t.Cleanup(server.Close)

	store := newTestStore(t, server.URL)
	events := store.LoadRecent(context.Background(), "s-1", "demo-user", 3)

	if len(gotCommand) != 4 {
		t.Fatalf("unexpected command: %v", gotCommand)
	}
	if gotCommand[0] != "LRANGE" {
		t.Fatalf("command[0] = %v, want LRANGE", gotCommand[0])
	}
	if gotCommand[1] != "triage:memory:support-agent:demo-user:s-1" {
		t.Fatalf("command[1] = %v", gotCommand[1])
	}
	if gotCommand[3] != float64(2) {
		t.Fatalf("command[3] = %v, want 2", gotCommand[3])
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Role != contractx.RoleAssistant || events[0].Content != "answer" {
		t.Fatalf("events[0] = %+v", events[0])
	}
	if events[1].Role != contractx.RoleUser || events[1].Content != "question" {
		t.Fatalf("events[1] = %+v", events[1])
	}
}

func TestLoadRecentFailureYieldsErrorMarker(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	store := newTestStore(t, server.URL)
	events := store.LoadRecent(context.Background(), "s-1", "demo-user", 3)

	if len(events) != 1 {
		t.Fatalf("expected single marker event, got %d", len(events))
	}
	if events[0].Error == "" {
		t.Fatal("expected memory_error marker to be set")
	}
}

func TestAppendTurnPushesPairWithClientToken(t *testing.T) {
	t.Parallel()

	var gotCommand []any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&gotCommand); err != nil {
			t.Fatalf("decode command: %v", err)
		}
		fmt.Fprint(w, `{"result":2}`)
	}))
	t.Cleanup(server.Close)

	store := newTestStore(t, server.URL)
	store.AppendTurn(context.Background(), "s-1", "demo-user", "my question", "the answer")

	if len(gotCommand) != 4 {
		t.Fatalf("unexpected command: %v", gotCommand)
	}
	if gotCommand[0] != "LPUSH" {
		t.Fatalf("command[0] = %v, want LPUSH", gotCommand[0])
	}

	var userRecord, assistantRecord eventRecord
	if err := json.Unmarshal([]byte(gotCommand[2].(string)), &userRecord); err != nil {
		t.Fatalf("decode user record: %v", err)
	}
	if err := json.Unmarshal([]byte(gotCommand[3].(string)), &assistantRecord); err != nil {
		t.Fatalf("decode assistant record: %v", err)
	}

	if userRecord.Role != contractx.RoleUser || userRecord.Content != "my question" {
		t.Fatalf("user record = %+v", userRecord)
	}
	if assistantRecord.Role != contractx.RoleAssistant || assistantRecord.Content != "the answer" {
		t.Fatalf("assistant record = %+v", assistantRecord)
	}
	if userRecord.ClientToken == "" || userRecord.ClientToken != assistantRecord.ClientToken {
		t.Fatalf("client tokens differ or empty: %q vs %q", userRecord.ClientToken, assistantRecord.ClientToken)
	}
}

func TestAppendTurnFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"WRONGTYPE"}`)
	}))
	t.Cleanup(server.Close)

	store := newTestStore(t, server.URL)
	// Must not panic or propagate anything.
	store.AppendTurn(context.Background(), "s-1", "demo-user", "q", "a")
}
