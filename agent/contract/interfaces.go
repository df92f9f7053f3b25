package contract

import "context"

// ModelInvoker sends a single-turn prompt to a hosted model and returns the
// raw text it produced.
type ModelInvoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// TokenSource exchanges configured client credentials for a short-lived
// bearer token. Tokens are fetched fresh on every call.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// ToolGateway resolves and invokes remote tools by logical name.
type ToolGateway interface {
	CallTool(ctx context.Context, name string, arguments map[string]any) (map[string]any, error)
}

// MemoryStore is the conversation event log. Both operations are best
// effort: failures surface as data (an Error-marked event, a dropped
// append), never as returned errors.
type MemoryStore interface {
	LoadRecent(ctx context.Context, sessionID, actorID string, max int) []MemoryEvent
	AppendTurn(ctx context.Context, sessionID, actorID, userText, assistantText string)
}
