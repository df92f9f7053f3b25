package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/supportlab/triage-agent/agent/contract"
)

// UnknownCustomerID is the sentinel sent when the request carries no
// customer id.
const UnknownCustomerID = "UNKNOWN"

// FetchContext invokes the customer-context tool through the gateway. Any
// failure (auth, resolution, protocol, transport) is converted into an error
// payload so the pipeline always reaches the compose stage.
func FetchContext(ctx context.Context, in *PipelineState, tools contractx.ToolGateway, toolName string) (*PipelineState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: pipeline state is nil", contractx.ErrValidation)
	}

	customerID := strings.TrimSpace(in.CustomerID)
	if customerID == "" {
		customerID = UnknownCustomerID
	}
	args := map[string]any{
		"customer_id": customerID,
	}

	result, err := tools.CallTool(ctx, toolName, args)
	if err != nil {
		log.Debug().Err(err).Str("tool", toolName).Msg("context fetch degraded")
		in.MCPResult = map[string]any{
			"gateway_error": err.Error(),
			"arguments":     args,
		}
		return in, nil
	}
	if result == nil {
		result = map[string]any{}
	}

	in.MCPResult = result
	return in, nil
}
