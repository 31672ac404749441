// Package repo provides Postgres bindings for the sessions domain.Repo
package repo

import (
	"context"

	"domainsift/internal/modkit/repokit"
	perr "domainsift/internal/platform/errors"
	"domainsift/internal/services/api/sessions/domain"
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

// InsertSession persists the session row with zeroed counters
func (r *queries) InsertSession(ctx context.Context, s domain.NewSession) error {
	const sql = `INSERT INTO analysis_sessions (id, owner_id, name, profile_type, total_domains, status)
	             VALUES ($1::uuid, $2::uuid, $3, $4, $5, 'pending')`
	if _, err := r.q.Exec(ctx, sql, s.ID, s.OwnerID, s.Name, s.ProfileType, s.TotalDomains); err != nil {
		return perr.FromPostgres(err, "insert session")
	}
	return nil
}

// InsertTasks persists all task rows in one unnest statement so the seq
// column preserves submission order
func (r *queries) InsertTasks(ctx context.Context, tasks []domain.NewTask) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]string, len(tasks))
	sessions := make([]string, len(tasks))
	domains := make([]string, len(tasks))
	urls := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
		sessions[i] = t.SessionID
		domains[i] = t.Domain
		urls[i] = t.URL
	}

	const sql = `INSERT INTO session_domains (id, session_id, domain, url, status)
	             SELECT x.id, x.session_id, x.domain, x.url, 'pending'
	             FROM unnest($1::uuid[], $2::uuid[], $3::text[], $4::text[])
	               AS x(id, session_id, domain, url)`
	if _, err := r.q.Exec(ctx, sql, ids, sessions, domains, urls); err != nil {
		return perr.FromPostgres(err, "insert session domains")
	}
	return nil
}

// DeleteSession removes the session, session_domains rows cascade
func (r *queries) DeleteSession(ctx context.Context, sessionID string) error {
	const sql = `DELETE FROM analysis_sessions WHERE id = $1::uuid`
	if _, err := r.q.Exec(ctx, sql, sessionID); err != nil {
		return perr.FromPostgres(err, "delete session")
	}
	return nil
}
