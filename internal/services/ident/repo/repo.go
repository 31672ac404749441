// Package repo provides Postgres bindings for the ident domain.Repo
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"

	"domainsift/internal/modkit/repokit"
	perr "domainsift/internal/platform/errors"
	"domainsift/internal/services/ident/domain"
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

// ByTokenHash loads the account matching the token digest
func (r *queries) ByTokenHash(ctx context.Context, hash []byte) (domain.Principal, bool, error) {
	const sql = `SELECT id::text, role FROM accounts WHERE api_token_hash = $1`
	var p domain.Principal
	row := r.q.QueryRow(ctx, sql, hash)
	if err := row.Scan(&p.OwnerID, &p.Role); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.Principal{}, false, nil
		}
		return domain.Principal{}, false, perr.FromPostgres(err, "resolve token")
	}
	return p, true, nil
}
