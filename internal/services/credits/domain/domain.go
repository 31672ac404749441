// Package domain defines the core types and interfaces for the credit ledger
package domain

import (
	"context"
	"time"
)

// Roles an account can hold. Admin accounts have unlimited credits,
// they are never checked and never debited
const (
	RoleAdmin    = "admin"
	RoleStandard = "standard"
)

// Account is the billing view of one owner
type Account struct {
	OwnerID string
	Email   string
	Role    string
	Credits int64
}

// IsAdmin reports whether the account bypasses credit accounting
func (a Account) IsAdmin() bool { return a.Role == RoleAdmin }

// Transaction is one append-only ledger row. Amounts are signed,
// a debit of n credits is recorded as -n
type Transaction struct {
	ID         string
	OwnerID    string
	Amount     int64
	Type       string
	Desc       string
	AnalysisID *string
	CreatedAt  time.Time
}

// TypeUsage is the transaction type for per-analysis debits
const TypeUsage = "usage"

// Repo is the storage surface bound to one Queryer
type Repo interface {
	// Account loads the billing account for owner
	Account(ctx context.Context, ownerID string) (Account, error)

	// DebitCAS decrements credits iff balance >= amount, in one statement.
	// Returns the remaining balance and whether the decrement applied
	DebitCAS(ctx context.Context, ownerID string, amount int64) (remaining int64, applied bool, err error)

	// AppendTransaction inserts one ledger row
	AppendTransaction(ctx context.Context, tx Transaction) error

	// Transactions returns the most recent ledger rows for owner
	Transactions(ctx context.Context, ownerID string, limit int) ([]Transaction, error)
}

// LedgerPort is what other services consume
type LedgerPort interface {
	// Balance returns the current credit balance for owner
	Balance(ctx context.Context, ownerID string) (int64, error)

	// Lookup returns the full account, callers use it for role checks
	Lookup(ctx context.Context, ownerID string) (Account, error)

	// Debit atomically verifies and decrements amount and appends the
	// matching ledger row. No-op success for admin owners
	Debit(ctx context.Context, ownerID string, amount int64, desc string, analysisID *string) error

	// Transactions returns the most recent ledger rows for owner
	Transactions(ctx context.Context, ownerID string, limit int) ([]Transaction, error)
}
