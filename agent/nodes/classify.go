package nodes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/supportlab/triage-agent/agent/contract"
	promptx "github.com/supportlab/triage-agent/agent/prompt"
)

// Classify assigns intent and severity from the user message. It never fails
// the pipeline: any model error, malformed output or out-of-enum value falls
// back to {general_support, low} with the reason recorded on the state.
func Classify(ctx context.Context, in *PipelineState, model contractx.ModelInvoker) (*PipelineState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: pipeline state is nil", contractx.ErrValidation)
	}

	classification, err := classify(ctx, in.UserMessage, model)
	if err != nil {
		log.Debug().Err(err).Msg("classification degraded to fallback")
		in.ClassifyNote = err.Error()
		classification = contractx.DefaultClassification()
	}

	in.Intent = classification.Intent
	in.Severity = classification.Severity
	return in, nil
}

func classify(ctx context.Context, userMessage string, model contractx.ModelInvoker) (contractx.IntentClassification, error) {
	raw, err := model.Invoke(ctx, promptx.RenderClassifier(userMessage))
	if err != nil {
		return contractx.IntentClassification{}, err
	}
	return parseClassification(raw)
}

// parseClassification tolerates a fenced-code-block wrapper and, failing a
// direct parse, extracts the first brace-delimited substring.
func parseClassification(raw string) (contractx.IntentClassification, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.IndexByte(cleaned, '\n'); idx >= 0 && !strings.HasPrefix(cleaned, "{") {
			cleaned = cleaned[idx+1:]
		}
		cleaned = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(cleaned), "`"))
	}

	var parsed contractx.IntentClassification
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		start := strings.IndexByte(cleaned, '{')
		end := strings.LastIndexByte(cleaned, '}')
		if start < 0 || end <= start {
			return contractx.IntentClassification{}, fmt.Errorf("%w: %v", contractx.ErrParse, err)
		}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &parsed); err != nil {
			return contractx.IntentClassification{}, fmt.Errorf("%w: %v", contractx.ErrParse, err)
		}
	}

	if !parsed.Intent.Valid() || !parsed.Severity.Valid() {
		return contractx.IntentClassification{}, fmt.Errorf("%w: intent=%q severity=%q outside closed enums", contractx.ErrParse, parsed.Intent, parsed.Severity)
	}
	return parsed, nil
}
