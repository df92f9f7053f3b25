package triage

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/supportlab/triage-agent/agent/contract"
	nodex "github.com/supportlab/triage-agent/agent/nodes"
)

const (
	// Reference-deployment defaults for payload fields that may be absent.
	DefaultCustomerID = "C-1001"
	DefaultSessionID  = "default_session"
	DefaultActorID    = "demo-user"

	// DefaultToolName is the logical customer-context tool; the gateway
	// resolves it to whatever concrete name the deployment registered.
	DefaultToolName = "get_customer_context"

	noAnswerFallback = "No response generated."
)

type Config struct {
	DefaultActorID string `envconfig:"DEFAULT_ACTOR_ID" split_words:"true" default:"demo-user"`
	ToolName       string `envconfig:"TOOL_NAME" split_words:"true" default:"get_customer_context"`
}

// Service drives the triage pipeline for one inbound request at a time:
// load recent memory, run the graph to completion, persist the exchanged
// turn, return the answer. Collaborators are injected so tests can
// substitute fakes.
type Service struct {
	model  contractx.ModelInvoker
	tools  contractx.ToolGateway
	memory contractx.MemoryStore

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	defaultActorID string
	toolName       string
}

func New(
	model contractx.ModelInvoker,
	tools contractx.ToolGateway,
	memory contractx.MemoryStore,
	cfg Config,
) (*Service, error) {
	if model == nil {
		return nil, errors.New("model invoker is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}
	if memory == nil {
		memory = noopMemoryStore{}
	}

	defaultActorID := strings.TrimSpace(cfg.DefaultActorID)
	if defaultActorID == "" {
		defaultActorID = DefaultActorID
	}
	toolName := strings.TrimSpace(cfg.ToolName)
	if toolName == "" {
		toolName = DefaultToolName
	}

	s := &Service{
		model:          model,
		tools:          tools,
		memory:         memory,
		defaultActorID: defaultActorID,
		toolName:       toolName,
	}

	graphRunner, err := s.compileTriageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	s.graphRunner = graphRunner

	return s, nil
}

// Handle unwraps the inbound payload, applying the documented defaults. The
// runtime-supplied session id wins over the payload's when present. Always
// returns a value for any well-formed payload: stage failures degrade the
// answer, they never surface here.
func (s *Service) Handle(ctx context.Context, payload contractx.InvocationPayload, runtimeSessionID string) (contractx.InvocationResult, error) {
	customerID := strings.TrimSpace(payload.CustomerID)
	if customerID == "" {
		customerID = DefaultCustomerID
	}

	sessionID := strings.TrimSpace(runtimeSessionID)
	if sessionID == "" {
		sessionID = strings.TrimSpace(payload.SessionID)
	}
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	actorID := strings.TrimSpace(payload.ActorID)
	if actorID == "" {
		actorID = s.defaultActorID
	}

	previousConversation := s.memory.LoadRecent(ctx, sessionID, actorID, 3)

	out, err := s.graphRunner.Invoke(ctx, nodex.GraphInput{
		Request: contractx.TriageRequest{
			UserMessage: payload.Message,
			CustomerID:  customerID,
			SessionID:   sessionID,
			ActorID:     actorID,
		},
		PreviousConversation: previousConversation,
	})
	if err != nil {
		return contractx.InvocationResult{}, err
	}

	finalAnswer := out.FinalAnswer
	if strings.TrimSpace(finalAnswer) == "" {
		finalAnswer = noAnswerFallback
	}

	s.memory.AppendTurn(ctx, sessionID, actorID, payload.Message, finalAnswer)

	return contractx.InvocationResult{Result: finalAnswer}, nil
}

type noopMemoryStore struct{}

func (noopMemoryStore) LoadRecent(context.Context, string, string, int) []contractx.MemoryEvent {
	return nil
}

func (noopMemoryStore) AppendTurn(context.Context, string, string, string, string) {}
