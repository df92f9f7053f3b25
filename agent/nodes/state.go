package nodes

import (
	contractx "github.com/supportlab/triage-agent/agent/contract"
)

type GraphInput struct {
	Request              contractx.TriageRequest
	PreviousConversation []contractx.MemoryEvent
}

type GraphOutput struct {
	FinalAnswer string
}

// PipelineState is the accumulator threaded through the three stages.
// Fields are additive: each stage fills in its own and never overwrites an
// earlier stage's. Contained failures stay inspectable here instead of being
// swallowed (ClassifyNote, the gateway_error payload in MCPResult).
type PipelineState struct {
	UserMessage          string
	CustomerID           string
	SessionID            string
	PreviousConversation []contractx.MemoryEvent

	Intent       contractx.Intent
	Severity     contractx.Severity
	ClassifyNote string

	MCPResult map[string]any

	FinalAnswer string
}

// Prepare seeds the pipeline state from the graph input.
func Prepare(in GraphInput) (*PipelineState, error) {
	return &PipelineState{
		UserMessage:          in.Request.UserMessage,
		CustomerID:           in.Request.CustomerID,
		SessionID:            in.Request.SessionID,
		PreviousConversation: in.PreviousConversation,
	}, nil
}
