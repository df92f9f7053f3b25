package gateway

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

	contractx "github.com/supportlab/triage-agent/agent/contract"
)

const (
	methodToolsList = "tools/list"
	methodToolsCall = "tools/call"

	// The reference deployment registers tools behind this target prefix;
	// resolution tries the qualified name before suffix matching.
	defaultTargetPrefix = "target-support-tool"

	maxResponseSizeBytes = 2 << 20
)

// Config points the invoker at the remote tool gateway. ToolName overrides
// resolution with an explicitly registered name when set.
type Config struct {
	URL      string        `envconfig:"URL" split_words:"true" required:"true"`
	ToolName string        `envconfig:"TOOL_NAME" split_words:"true"`
	Timeout  time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"20s"`
}

// Client lists and invokes remote tools over a JSON-RPC-shaped transport.
// The directory and the bearer token are fetched fresh per invocation; the
// gateway may re-register tools at any time and token lifetime is not known
// here.
type Client struct {
	baseURL    string
	toolName   string
	tokens     contractx.TokenSource
	httpClient *http.Client
}

var _ contractx.ToolGateway = (*Client)(nil)

func NewClient(cfg Config, tokens contractx.TokenSource) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: gateway url is required", contractx.ErrConfiguration)
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid gateway url: %w", err)
	}
	if tokens == nil {
		return nil, errors.New("token source is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Client{
		baseURL:  baseURL,
		toolName: strings.TrimSpace(cfg.ToolName),
		tokens:   tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type rpcRequest struct {
	JSONRPC string     `json:"jsonrpc"`
	ID      string     `json:"id"`
	Method  string     `json:"method"`
	Params  *rpcParams `json:"params,omitempty"`
}

type rpcParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

// ListTools issues a directory-listing request and normalizes the result to
// one canonical slice; the gateway returns either {"tools": [...]} or a bare
// list.
func (c *Client) ListTools(ctx context.Context, accessToken string) ([]contractx.ToolDescriptor, error) {
	resp, err := c.post(ctx, accessToken, rpcRequest{
		JSONRPC: "2.0",
		ID:      "list-tools-request",
		Method:  methodToolsList,
	})
	if err != nil {
		return nil, err
	}
	return normalizeDirectory(resp.Result), nil
}

func normalizeDirectory(raw json.RawMessage) []contractx.ToolDescriptor {
	if len(raw) == 0 {
		return nil
	}

	var wrapped struct {
		Tools []contractx.ToolDescriptor `json:"tools"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Tools != nil {
		return wrapped.Tools
	}

	var bare []contractx.ToolDescriptor
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare
	}
	return nil
}

// ResolveToolName maps a requested logical name to the concrete registered
// name. Priority: configured name, qualified default, bare name, then the
// first directory entry whose name ends with the qualified or bare suffix.
// The directory may prefix names with a deployment-specific target id, so
// suffix matching keeps the pipeline deployment-agnostic.
func (c *Client) ResolveToolName(ctx context.Context, accessToken, requested string) (string, error) {
	tools, err := c.ListTools(ctx, accessToken)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		if name := strings.TrimSpace(tool.Name); name != "" {
			names = append(names, name)
		}
	}

	preferred := []string{c.toolName, defaultTargetPrefix + "___" + requested, requested}
	for _, want := range preferred {
		if want == "" {
			continue
		}
		for _, name := range names {
			if name == want {
				return name, nil
			}
		}
	}

	for _, name := range names {
		if strings.HasSuffix(name, "___"+requested) {
			return name, nil
		}
	}
	for _, name := range names {
		if strings.HasSuffix(name, requested) {
			return name, nil
		}
	}

	return "", fmt.Errorf("%w: requested=%s available=%v", contractx.ErrResolution, requested, names)
}

// CallTool fetches a fresh token, resolves the requested name and invokes
// the tool. Returns the result payload, defaulting to an empty map.
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]any) (map[string]any, error) {
	accessToken, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	resolved, err := c.ResolveToolName(ctx, accessToken, name)
	if err != nil {
		return nil, err
	}

	resp, err := c.post(ctx, accessToken, rpcRequest{
		JSONRPC: "2.0",
		ID:      "call-" + uuid.NewString(),
		Method:  methodToolsCall,
		Params: &rpcParams{
			Name:      resolved,
			Arguments: arguments,
		},
	})
	if err != nil {
		return nil, err
	}

	result := map[string]any{}
	if len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, &result); err != nil {
			return nil, fmt.Errorf("decode tool result: %w", err)
		}
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, accessToken string, payload rpcRequest) (*rpcResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute gateway request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("gateway http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed rpcResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	if len(parsed.Error) > 0 && !bytes.Equal(bytes.TrimSpace(parsed.Error), []byte("null")) {
		return nil, fmt.Errorf("%w: method=%s error=%s", contractx.ErrProtocol, payload.Method, string(parsed.Error))
	}
	return &parsed, nil
}
