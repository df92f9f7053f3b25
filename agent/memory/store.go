package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/supportlab/triage-agent/agent/contract"
)

const (
	defaultKeyPrefix   = "triage:memory:"
	defaultMaxEvents   = 3
	maxResponseSizeBytes = 2 << 20
)

// Config points the adapter at an Upstash Redis REST endpoint. Leaving URL
// or MemoryID blank disables memory entirely: loads return nothing, appends
// are dropped.
type Config struct {
	URL      string        `envconfig:"URL" split_words:"true"`
	Token    string        `envconfig:"TOKEN" split_words:"true"`
	MemoryID string        `envconfig:"MEMORY_ID" split_words:"true"`
	Timeout  time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// Store is an append-only conversation event log keyed by
// (memory, actor, session). Reads and writes are best effort by contract:
// memory must never block triage.
type Store struct {
	baseURL    string
	token      string
	memoryID   string
	keyPrefix  string
	httpClient *http.Client
}

var _ contractx.MemoryStore = (*Store)(nil)

func NewStore(cfg Config) (*Store, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL != "" {
		if _, err := url.ParseRequestURI(baseURL); err != nil {
			return nil, fmt.Errorf("invalid memory rest url: %w", err)
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Store{
		baseURL:   baseURL,
		token:     strings.TrimSpace(cfg.Token),
		memoryID:  strings.TrimSpace(cfg.MemoryID),
		keyPrefix: defaultKeyPrefix,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (s *Store) configured() bool {
	return s != nil && s.baseURL != "" && s.memoryID != ""
}

// eventRecord is the stored shape of one conversation turn. ClientToken is a
// fresh idempotency token shared by both turns of an append, so retried
// appends can be de-duplicated at the store.
type eventRecord struct {
	ClientToken string        `json:"client_token"`
	Role        contractx.Role `json:"role"`
	Content     string        `json:"content"`
	Timestamp   time.Time     `json:"timestamp"`
}

// LoadRecent returns up to max prior turns, newest first. An unconfigured
// store yields nothing; a failing store yields a single Error-marked event
// instead of propagating, so triage continues degraded.
func (s *Store) LoadRecent(ctx context.Context, sessionID, actorID string, max int) []contractx.MemoryEvent {
	if !s.configured() {
		return nil
	}
	if max <= 0 {
		max = defaultMaxEvents
	}

	resp, err := s.exec(ctx, []any{"LRANGE", s.eventKey(sessionID, actorID), 0, max - 1})
	if err != nil {
		log.Debug().Err(err).Str("session_id", sessionID).Msg("memory load failed")
		return []contractx.MemoryEvent{{Error: err.Error()}}
	}

	var rawEvents []string
	if err := json.Unmarshal(resp.Result, &rawEvents); err != nil {
		log.Debug().Err(err).Str("session_id", sessionID).Msg("memory payload malformed")
		return []contractx.MemoryEvent{{Error: err.Error()}}
	}

	events := make([]contractx.MemoryEvent, 0, len(rawEvents))
	for _, raw := range rawEvents {
		var record eventRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			continue
		}
		events = append(events, contractx.MemoryEvent{
			Role:      record.Role,
			Content:   record.Content,
			Timestamp: record.Timestamp,
		})
	}
	return events
}

// AppendTurn pushes the exchanged user/assistant pair. Best effort: any
// failure is logged and dropped so the response can still be returned.
func (s *Store) AppendTurn(ctx context.Context, sessionID, actorID, userText, assistantText string) {
	if !s.configured() {
		return
	}

	now := time.Now().UTC()
	clientToken := uuid.NewString()

	userRaw, err := json.Marshal(eventRecord{
		ClientToken: clientToken,
		Role:        contractx.RoleUser,
		Content:     userText,
		Timestamp:   now,
	})
	if err != nil {
		log.Debug().Err(err).Msg("memory append marshal failed")
		return
	}
	assistantRaw, err := json.Marshal(eventRecord{
		ClientToken: clientToken,
		Role:        contractx.RoleAssistant,
		Content:     assistantText,
		Timestamp:   now,
	})
	if err != nil {
		log.Debug().Err(err).Msg("memory append marshal failed")
		return
	}

	// Newest first on read, so push the assistant turn last.
	cmd := []any{"LPUSH", s.eventKey(sessionID, actorID), string(userRaw), string(assistantRaw)}
	if _, err := s.exec(ctx, cmd); err != nil {
		log.Debug().Err(err).Str("session_id", sessionID).Msg("memory append failed")
	}
}

func (s *Store) eventKey(sessionID, actorID string) string {
	return s.keyPrefix + s.memoryID + ":" + actorID + ":" + sessionID
}

type redisRESTResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func (s *Store) exec(ctx context.Context, command []any) (*redisRESTResponse, error) {
	if len(command) == 0 {
		return nil, errors.New("empty redis command")
	}

	body, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("marshal redis command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	if parsed.Error != "" {
		return nil, errors.New(parsed.Error)
	}
	return &parsed, nil
}
