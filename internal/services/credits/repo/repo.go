// Package repo provides Postgres bindings for the credits domain.Repo
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"

	"domainsift/internal/modkit/repokit"
	perr "domainsift/internal/platform/errors"
	"domainsift/internal/services/credits/domain"
)

type (
	// PG is a Postgres binder for domain.Repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// Compile-time assertion: queries implements domain.Repo
var _ domain.Repo = (*queries)(nil)

// NewPG returns a Postgres binder for Repo
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

// Account loads the billing account for owner
func (r *queries) Account(ctx context.Context, ownerID string) (domain.Account, error) {
	const sql = `SELECT id::text, email, role, credits
	             FROM accounts
	             WHERE id = $1::uuid`
	var a domain.Account
	row := r.q.QueryRow(ctx, sql, ownerID)
	if err := row.Scan(&a.OwnerID, &a.Email, &a.Role, &a.Credits); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.Account{}, perr.NotFoundf("account %s not found", ownerID)
		}
		return domain.Account{}, perr.FromPostgres(err, "load account")
	}
	return a, nil
}

// DebitCAS decrements credits in one conditional statement.
// The WHERE clause carries the balance check so concurrent debits for the
// same owner can never drive the balance negative
func (r *queries) DebitCAS(ctx context.Context, ownerID string, amount int64) (int64, bool, error) {
	const sql = `UPDATE accounts
	             SET credits = credits - $2
	             WHERE id = $1::uuid AND credits >= $2
	             RETURNING credits`
	var remaining int64
	row := r.q.QueryRow(ctx, sql, ownerID, amount)
	if err := row.Scan(&remaining); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			// account missing or balance too low, caller decides which
			return 0, false, nil
		}
		return 0, false, perr.FromPostgres(err, "debit credits")
	}
	return remaining, true, nil
}

// AppendTransaction inserts one ledger row
func (r *queries) AppendTransaction(ctx context.Context, tx domain.Transaction) error {
	const sql = `INSERT INTO credit_transactions (owner_id, amount, transaction_type, description, analysis_id)
	             VALUES ($1::uuid, $2, $3, $4, $5::uuid)`
	if _, err := r.q.Exec(ctx, sql, tx.OwnerID, tx.Amount, tx.Type, tx.Desc, tx.AnalysisID); err != nil {
		return perr.FromPostgres(err, "append credit transaction")
	}
	return nil
}

// Transactions returns the most recent ledger rows for owner, newest first
func (r *queries) Transactions(ctx context.Context, ownerID string, limit int) ([]domain.Transaction, error) {
	const sql = `SELECT id::text, owner_id::text, amount, transaction_type,
	                    COALESCE(description, ''), analysis_id::text, created_at
	             FROM credit_transactions
	             WHERE owner_id = $1::uuid
	             ORDER BY created_at DESC
	             LIMIT $2`
	rows, err := r.q.Query(ctx, sql, ownerID, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "list credit transactions")
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(&tx.ID, &tx.OwnerID, &tx.Amount, &tx.Type, &tx.Desc, &tx.AnalysisID, &tx.CreatedAt); err != nil {
			return nil, perr.FromPostgres(err, "scan credit transaction")
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}
