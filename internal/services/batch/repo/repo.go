// Package repo provides Postgres bindings for the batch domain.Repo
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"
	"time"

	"domainsift/internal/modkit/repokit"
	perr "domainsift/internal/platform/errors"
	"domainsift/internal/services/batch/domain"
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

// SessionForOwner loads the session iff it belongs to owner
func (r *queries) SessionForOwner(ctx context.Context, sessionID, ownerID string) (domain.Session, error) {
	const sql = `SELECT id::text, owner_id::text, name, profile_type,
	                    total_domains, processed_domains, successful_analyses,
	                    failed_analyses, credits_used, status,
	                    started_at, completed_at, processing_lease_until
	             FROM analysis_sessions
	             WHERE id = $1::uuid AND owner_id = $2::uuid`
	var s domain.Session
	row := r.q.QueryRow(ctx, sql, sessionID, ownerID)
	err := row.Scan(
		&s.ID, &s.OwnerID, &s.Name, &s.ProfileType,
		&s.TotalDomains, &s.ProcessedDomains, &s.SuccessfulAnalyses,
		&s.FailedAnalyses, &s.CreditsUsed, &s.Status,
		&s.StartedAt, &s.CompletedAt, &s.LeaseUntil,
	)
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.Session{}, perr.NotFoundf("session not found")
		}
		return domain.Session{}, perr.FromPostgres(err, "load session")
	}
	return s, nil
}

// ClaimSession takes the processing lease in one conditional UPDATE.
// Status stays monotonic: a completed session never matches, a pending one
// moves to processing, a processing one is only re-claimable once its lease
// lapsed (crashed worker recovery)
func (r *queries) ClaimSession(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	const sql = `UPDATE analysis_sessions
	             SET status = 'processing',
	                 started_at = COALESCE(started_at, NOW()),
	                 processing_lease_until = NOW() + make_interval(secs => $2)
	             WHERE id = $1::uuid
	               AND (status = 'pending'
	                    OR (status = 'processing'
	                        AND (processing_lease_until IS NULL OR processing_lease_until < NOW())))
	             RETURNING id`
	var id string
	row := r.q.QueryRow(ctx, sql, sessionID, ttl.Seconds())
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return false, nil
		}
		return false, perr.FromPostgres(err, "claim session")
	}
	return true, nil
}

// ClaimTasks claims up to limit pending tasks in creation order.
// Single statement claim-and-return, SKIP LOCKED keeps two concurrent
// claimers from ever sharing a row
func (r *queries) ClaimTasks(ctx context.Context, sessionID string, limit int) ([]domain.Task, error) {
	const sql = `UPDATE session_domains sd
	             SET status = 'processing'
	             FROM (
	                 SELECT id FROM session_domains
	                 WHERE session_id = $1::uuid AND status = 'pending'
	                 ORDER BY seq
	                 LIMIT $2
	                 FOR UPDATE SKIP LOCKED
	             ) picked
	             WHERE sd.id = picked.id
	             RETURNING sd.id::text, sd.session_id::text, sd.domain, sd.url`
	rows, err := r.q.Query(ctx, sql, sessionID, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "claim tasks")
	}
	defer rows.Close()

	var out []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Domain, &t.URL); err != nil {
			return nil, perr.FromPostgres(err, "scan claimed task")
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// InsertAnalysis persists a completed analysis row and returns its id
func (r *queries) InsertAnalysis(ctx context.Context, a domain.Analysis) (string, error) {
	const sql = `INSERT INTO analyses
	             (owner_id, domain, url, profile_type, status, classification,
	              confidence, comment, processing_time_seconds, credits_used,
	              raw_result, completed_at)
	             VALUES ($1::uuid, $2, $3, $4, 'completed', $5, $6, $7, $8, $9, $10, NOW())
	             RETURNING id::text`
	var id string
	row := r.q.QueryRow(ctx, sql,
		a.OwnerID, a.Domain, a.URL, a.ProfileType, a.Classification,
		a.Confidence, a.Comment, a.ProcessingSec, a.CreditsUsed, a.Raw,
	)
	if err := row.Scan(&id); err != nil {
		return "", perr.FromPostgres(err, "insert analysis")
	}
	return id, nil
}

// CompleteTask marks the task completed and links its analysis
func (r *queries) CompleteTask(ctx context.Context, taskID, analysisID string) error {
	const sql = `UPDATE session_domains
	             SET status = 'completed', analysis_id = $2::uuid
	             WHERE id = $1::uuid AND status = 'processing'`
	if _, err := r.q.Exec(ctx, sql, taskID, analysisID); err != nil {
		return perr.FromPostgres(err, "complete task")
	}
	return nil
}

// FailTask marks the task failed, no analysis link
func (r *queries) FailTask(ctx context.Context, taskID, cause string) error {
	const sql = `UPDATE session_domains
	             SET status = 'failed', failure_cause = $2
	             WHERE id = $1::uuid AND status = 'processing'`
	if _, err := r.q.Exec(ctx, sql, taskID, cause); err != nil {
		return perr.FromPostgres(err, "fail task")
	}
	return nil
}

// AddCounters increments the session aggregates, never overwrites
func (r *queries) AddCounters(ctx context.Context, sessionID string, c domain.Counters) error {
	const sql = `UPDATE analysis_sessions
	             SET processed_domains    = processed_domains + $2,
	                 successful_analyses  = successful_analyses + $3,
	                 failed_analyses      = failed_analyses + $4,
	                 credits_used         = credits_used + $5
	             WHERE id = $1::uuid`
	if _, err := r.q.Exec(ctx, sql, sessionID, c.Processed, c.Successful, c.Failed, c.Credits); err != nil {
		return perr.FromPostgres(err, "add session counters")
	}
	return nil
}

// ReleaseLease clears the processing lease after a slice finishes
func (r *queries) ReleaseLease(ctx context.Context, sessionID string) error {
	const sql = `UPDATE analysis_sessions
	             SET processing_lease_until = NULL
	             WHERE id = $1::uuid`
	if _, err := r.q.Exec(ctx, sql, sessionID); err != nil {
		return perr.FromPostgres(err, "release session lease")
	}
	return nil
}

// CompleteIfExhausted flips the session to completed iff every domain has
// been processed. Conditional, so repeated calls converge and a racing slice
// can never un-complete a session
func (r *queries) CompleteIfExhausted(ctx context.Context, sessionID string) (bool, error) {
	const sql = `UPDATE analysis_sessions
	             SET status = 'completed',
	                 completed_at = COALESCE(completed_at, NOW()),
	                 processing_lease_until = NULL
	             WHERE id = $1::uuid
	               AND status <> 'completed'
	               AND processed_domains >= total_domains
	             RETURNING id`
	var id string
	row := r.q.QueryRow(ctx, sql, sessionID)
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return false, nil
		}
		return false, perr.FromPostgres(err, "complete session")
	}
	return true, nil
}
