// Package service implements the credit ledger
package service

import (
	"context"

	"domainsift/internal/modkit/repokit"
	perr "domainsift/internal/platform/errors"
	"domainsift/internal/services/credits/domain"
)

// Svc implements domain.LedgerPort over Postgres
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.Repo]
}

// Compile-time assertion: Svc implements domain.LedgerPort
var _ domain.LedgerPort = (*Svc)(nil)

// New constructs the credits service
func New(db repokit.TxRunner, binder repokit.Binder[domain.Repo]) *Svc {
	if db == nil {
		panic("credits.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("credits.Service requires a non-nil Repo binder")
	}
	return &Svc{db: db, binder: binder}
}

// Balance returns the current credit balance for owner
func (s *Svc) Balance(ctx context.Context, ownerID string) (int64, error) {
	a, err := s.binder.Bind(s.db).Account(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	return a.Credits, nil
}

// Lookup returns the full account for role checks
func (s *Svc) Lookup(ctx context.Context, ownerID string) (domain.Account, error) {
	return s.binder.Bind(s.db).Account(ctx, ownerID)
}

// Debit verifies and decrements amount, and appends the matching ledger row,
// inside one transaction so the decrement and the append land together.
// Admin owners are a no-op success, never debited, never checked
func (s *Svc) Debit(ctx context.Context, ownerID string, amount int64, desc string, analysisID *string) error {
	if amount <= 0 {
		return perr.InvalidArgf("debit amount must be positive, got %d", amount)
	}

	return s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)

		acct, err := r.Account(ctx, ownerID)
		if err != nil {
			return err
		}
		if acct.IsAdmin() {
			return nil
		}

		_, applied, err := r.DebitCAS(ctx, ownerID, amount)
		if err != nil {
			return err
		}
		if !applied {
			return perr.WithDetails(
				perr.InsufficientCreditsf("insufficient credits: need %d, have %d", amount, acct.Credits),
				map[string]int64{"required": amount, "available": acct.Credits},
			)
		}

		return r.AppendTransaction(ctx, domain.Transaction{
			OwnerID:    ownerID,
			Amount:     -amount,
			Type:       domain.TypeUsage,
			Desc:       desc,
			AnalysisID: analysisID,
		})
	})
}

// Transactions returns the most recent ledger rows for owner
func (s *Svc) Transactions(ctx context.Context, ownerID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.binder.Bind(s.db).Transactions(ctx, ownerID, limit)
}
