package nodes

import (
	"encoding/json"
	"fmt"

	contractx "github.com/supportlab/triage-agent/agent/contract"
)

const recommendedAction = "Recommended next action: verify account/payment context and provide guided resolution."

// Compose renders the final plain-text report. Pure formatting: identical
// inputs always produce byte-identical output.
func Compose(in *PipelineState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: pipeline state is nil", contractx.ErrValidation)
	}

	mcpResult := in.MCPResult
	if mcpResult == nil {
		mcpResult = map[string]any{}
	}
	contextBlock, err := json.MarshalIndent(mcpResult, "", "  ")
	if err != nil {
		contextBlock = []byte("{}")
	}

	answer := fmt.Sprintf(
		"Intent: %s\nSeverity: %s\n\nUser issue: %s\n\nContext from MCP:\n%s\n\nRecent memory events seen: %d\n%s",
		in.Intent,
		in.Severity,
		in.UserMessage,
		contextBlock,
		len(in.PreviousConversation),
		recommendedAction,
	)

	in.FinalAnswer = answer
	return GraphOutput{FinalAnswer: answer}, nil
}
