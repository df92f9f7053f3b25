package contract

import "time"

type Intent string

const (
	IntentRefundRequest  Intent = "refund_request"
	IntentInvoiceIssue   Intent = "invoice_issue"
	IntentPaymentFailure Intent = "payment_failure"
	IntentAccountAccess  Intent = "account_access"
	IntentGeneralSupport Intent = "general_support"
)

func (i Intent) Valid() bool {
	switch i {
	case IntentRefundRequest, IntentInvoiceIssue, IntentPaymentFailure, IntentAccountAccess, IntentGeneralSupport:
		return true
	}
	return false
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IntentClassification is produced once per request by the classify stage.
// Exactly one value from each closed enum; DefaultClassification is the
// fallback when classification fails for any reason.
type IntentClassification struct {
	Intent   Intent   `json:"intent"`
	Severity Severity `json:"severity"`
}

func DefaultClassification() IntentClassification {
	return IntentClassification{
		Intent:   IntentGeneralSupport,
		Severity: SeverityLow,
	}
}

// TriageRequest is the immutable per-call input to the pipeline.
type TriageRequest struct {
	UserMessage string `json:"user_message"`
	CustomerID  string `json:"customer_id"`
	SessionID   string `json:"session_id"`
	ActorID     string `json:"actor_id"`
}

// MemoryEvent is one role-tagged conversation turn loaded from the memory
// store. Error is set instead of the other fields when a memory read failed;
// read failures never block triage.
type MemoryEvent struct {
	Role      Role      `json:"role,omitempty"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
	Error     string    `json:"memory_error,omitempty"`
}

// ToolDescriptor is the subset of the remote tool schema the pipeline
// consumes.
type ToolDescriptor struct {
	Name string `json:"name"`
}

// InvocationPayload is the inbound request shape.
type InvocationPayload struct {
	Message    string `json:"message"`
	CustomerID string `json:"customer_id,omitempty"`
	SessionID  string `json:"session_id,omitempty"`
	ActorID    string `json:"actor_id,omitempty"`
}

// InvocationResult wraps the final triage answer.
type InvocationResult struct {
	Result string `json:"result"`
}
