package customer

import (
	"time"

	"github.com/uptrace/bun"
)

// CustomerContext is one seeded support record, keyed by customer id. The
// nested collections live in JSON columns; the gateway serves the whole
// record as the tool-call result.
type CustomerContext struct {
	bun.BaseModel `bun:"table:support_customer_context"`

	CustomerID     string    `bun:"customer_id,pk" json:"customer_id"`
	FirstName      string    `bun:"first_name" json:"first_name"`
	AccountStatus  string    `bun:"account_status" json:"account_status"`
	RiskFlags      []string  `bun:"risk_flags,type:jsonb" json:"risk_flags"`
	OpenTickets    []Ticket  `bun:"open_tickets,type:jsonb" json:"open_tickets"`
	RecentPayments []Payment `bun:"recent_payments,type:jsonb" json:"recent_payments"`
	UpdatedAt      time.Time `bun:"updated_at" json:"updated_at"`
}

type Ticket struct {
	TicketID  string    `json:"ticket_id"`
	Status    string    `json:"status"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

type Payment struct {
	PaymentID string    `json:"payment_id"`
	Status    string    `json:"status"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Timestamp time.Time `json:"timestamp"`
}
