// Package repo provides Postgres bindings for the analyses domain.Repo
package repo

import (
	"context"

	"domainsift/internal/modkit/repokit"
	perr "domainsift/internal/platform/errors"
	"domainsift/internal/services/api/analyses/domain"
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

// InsertProcessing creates the row before the classifier call so a crash
// mid-call still leaves an auditable processing row
func (r *queries) InsertProcessing(ctx context.Context, a domain.NewAnalysis) (string, error) {
	const sql = `INSERT INTO analyses (owner_id, domain, url, profile_type, status)
	             VALUES ($1::uuid, $2, $3, $4, 'processing')
	             RETURNING id::text`
	var id string
	row := r.q.QueryRow(ctx, sql, a.OwnerID, a.Domain, a.URL, a.ProfileType)
	if err := row.Scan(&id); err != nil {
		return "", perr.FromPostgres(err, "insert analysis")
	}
	return id, nil
}

// Complete records the verdict on the processing row
func (r *queries) Complete(ctx context.Context, analysisID string, v domain.Verdict) error {
	const sql = `UPDATE analyses
	             SET status = 'completed',
	                 classification = $2,
	                 confidence = $3,
	                 comment = $4,
	                 processing_time_seconds = $5,
	                 credits_used = $6,
	                 raw_result = $7,
	                 completed_at = NOW()
	             WHERE id = $1::uuid`
	if _, err := r.q.Exec(ctx, sql,
		analysisID, v.Classification, v.Confidence, v.Comment, v.ProcessingSec, v.CreditsUsed, v.Raw,
	); err != nil {
		return perr.FromPostgres(err, "complete analysis")
	}
	return nil
}

// Fail records the error message on the processing row
func (r *queries) Fail(ctx context.Context, analysisID, message string) error {
	const sql = `UPDATE analyses
	             SET status = 'failed',
	                 error_message = $2,
	                 completed_at = NOW()
	             WHERE id = $1::uuid`
	if _, err := r.q.Exec(ctx, sql, analysisID, message); err != nil {
		return perr.FromPostgres(err, "fail analysis")
	}
	return nil
}
