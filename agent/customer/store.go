package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

var ErrNotFound = errors.New("customer context not found")

type Config struct {
	DSN     string        `envconfig:"DSN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// Connect opens a bun handle over the Postgres DSN.
func Connect(cfg Config) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(timeout),
	))
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// Store reads and writes seeded customer-context records.
type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("database handle is required")
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, customerID string) (*CustomerContext, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, fmt.Errorf("%w: empty customer id", ErrNotFound)
	}

	record := new(CustomerContext)
	err := s.db.NewSelect().
		Model(record).
		Where("customer_id = ?", customerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: customer_id=%s", ErrNotFound, customerID)
		}
		return nil, fmt.Errorf("select customer context: %w", err)
	}
	return record, nil
}

// CreateTable provisions the backing table when it does not exist yet.
func (s *Store) CreateTable(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*CustomerContext)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create customer context table: %w", err)
	}
	return nil
}

// Upsert overwrites records by primary key, matching the seeder's
// overwrite-on-conflict behavior.
func (s *Store) Upsert(ctx context.Context, records []*CustomerContext) error {
	if len(records) == 0 {
		return nil
	}

	_, err := s.db.NewInsert().
		Model(&records).
		On("CONFLICT (customer_id) DO UPDATE").
		Set("first_name = EXCLUDED.first_name").
		Set("account_status = EXCLUDED.account_status").
		Set("risk_flags = EXCLUDED.risk_flags").
		Set("open_tickets = EXCLUDED.open_tickets").
		Set("recent_payments = EXCLUDED.recent_payments").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert customer contexts: %w", err)
	}
	return nil
}
