package customer

import (
	"fmt"
	"time"
)

type seedProfile struct {
	customerID     string
	firstName      string
	accountStatus  string
	riskFlags      []string
	ticketStatus   string
	ticketCategory string
	ticketAgeDays  int
	paymentStates  [2]string
	amounts        [2]float64
}

var seedProfiles = []seedProfile{
	{"C1001", "Aarav", "ACTIVE", []string{"retry_spike"}, "OPEN", "billing", 3, [2]string{"SUCCESS", "FAILED"}, [2]float64{49.99, 129.50}},
	{"C1002", "Mia", "ACTIVE", []string{"high_contact_rate"}, "PENDING", "payments", 7, [2]string{"SUCCESS", "SUCCESS"}, [2]float64{19.99, 24.99}},
	{"C1003", "Noah", "ACTIVE", []string{}, "IN_PROGRESS", "invoice", 5, [2]string{"FAILED", "SUCCESS"}, [2]float64{89.00, 89.00}},
	{"C1004", "Isha", "SUSPENDED", []string{"chargeback_risk"}, "OPEN", "account_access", 1, [2]string{"FAILED", "FAILED"}, [2]float64{199.99, 199.99}},
	{"C1005", "Liam", "ACTIVE", []string{}, "OPEN", "payments", 2, [2]string{"FAILED", "SUCCESS"}, [2]float64{59.99, 59.99}},
	{"C1006", "Ava", "ACTIVE", []string{"retry_spike"}, "PENDING", "billing", 10, [2]string{"SUCCESS", "SUCCESS"}, [2]float64{29.99, 34.99}},
	{"C1007", "Ethan", "ACTIVE", []string{}, "IN_PROGRESS", "invoice", 12, [2]string{"SUCCESS", "FAILED"}, [2]float64{249.00, 65.00}},
	{"C1008", "Zara", "ACTIVE", []string{"invoice_dispute"}, "OPEN", "invoice", 4, [2]string{"SUCCESS", "SUCCESS"}, [2]float64{119.99, 119.99}},
	{"C1009", "Arjun", "PENDING", []string{"login_risk"}, "PENDING", "account_access", 8, [2]string{"FAILED", "SUCCESS"}, [2]float64{39.99, 39.99}},
	{"C1010", "Emma", "ACTIVE", []string{}, "OPEN", "billing", 6, [2]string{"SUCCESS", "SUCCESS"}, [2]float64{74.50, 74.50}},
}

// SeedItems builds the ten reference customer records relative to now.
// Deterministic on purpose: tests and the sandbox gateway rely on stable
// fixtures.
func SeedItems(now time.Time) []*CustomerContext {
	now = now.UTC()

	items := make([]*CustomerContext, 0, len(seedProfiles))
	for i, p := range seedProfiles {
		items = append(items, &CustomerContext{
			CustomerID:    p.customerID,
			FirstName:     p.firstName,
			AccountStatus: p.accountStatus,
			RiskFlags:     p.riskFlags,
			OpenTickets: []Ticket{
				{
					TicketID:  fmt.Sprintf("T-%d", 901+i),
					Status:    p.ticketStatus,
					Category:  p.ticketCategory,
					CreatedAt: now.AddDate(0, 0, -p.ticketAgeDays),
				},
			},
			RecentPayments: []Payment{
				{
					PaymentID: fmt.Sprintf("P-%d-1", i+1),
					Status:    p.paymentStates[0],
					Amount:    p.amounts[0],
					Currency:  "USD",
					Timestamp: now.AddDate(0, 0, -(p.ticketAgeDays + 2)),
				},
				{
					PaymentID: fmt.Sprintf("P-%d-2", i+1),
					Status:    p.paymentStates[1],
					Amount:    p.amounts[1],
					Currency:  "USD",
					Timestamp: now.AddDate(0, 0, -(p.ticketAgeDays + 9)),
				},
			},
			UpdatedAt: now,
		})
	}
	return items
}
