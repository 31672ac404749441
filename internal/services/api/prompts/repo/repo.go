// Package repo provides Postgres bindings for the prompts domain.Repo
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"

	"domainsift/internal/modkit/repokit"
	perr "domainsift/internal/platform/errors"
	"domainsift/internal/services/api/prompts/domain"
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

const promptCols = `id::text, name, profile_type, prompt_type, version, content,
                    COALESCE(variables, 'null'::jsonb), is_active, is_default,
                    created_by::text, created_at, updated_at`

func scanPrompt(row interface{ Scan(...any) error }) (domain.Prompt, error) {
	var p domain.Prompt
	err := row.Scan(
		&p.ID, &p.Name, &p.ProfileType, &p.PromptType, &p.Version, &p.Content,
		&p.Variables, &p.IsActive, &p.IsDefault, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// Insert persists a new prompt at version 1
func (r *queries) Insert(ctx context.Context, p domain.Prompt) (domain.Prompt, error) {
	const sql = `INSERT INTO prompts (name, profile_type, prompt_type, version, content, variables, is_active, created_by)
	             VALUES ($1, $2, $3, 1, $4, $5, TRUE, $6::uuid)
	             RETURNING ` + promptCols
	out, err := scanPrompt(r.q.QueryRow(ctx, sql,
		p.Name, p.ProfileType, p.PromptType, p.Content, p.Variables, p.CreatedBy))
	if err != nil {
		return domain.Prompt{}, perr.FromPostgres(err, "insert prompt")
	}
	return out, nil
}

// Get loads one prompt by id
func (r *queries) Get(ctx context.Context, id string) (domain.Prompt, error) {
	const sql = `SELECT ` + promptCols + ` FROM prompts WHERE id = $1::uuid`
	out, err := scanPrompt(r.q.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.Prompt{}, perr.NotFoundf("prompt %s not found", id)
		}
		return domain.Prompt{}, perr.FromPostgres(err, "load prompt")
	}
	return out, nil
}

// Update rewrites the mutable fields
func (r *queries) Update(ctx context.Context, p domain.Prompt) (domain.Prompt, error) {
	const sql = `UPDATE prompts
	             SET name = $2, content = $3, variables = $4, is_active = $5,
	                 version = $6, updated_at = NOW()
	             WHERE id = $1::uuid
	             RETURNING ` + promptCols
	out, err := scanPrompt(r.q.QueryRow(ctx, sql,
		p.ID, p.Name, p.Content, p.Variables, p.IsActive, p.Version))
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.Prompt{}, perr.NotFoundf("prompt %s not found", p.ID)
		}
		return domain.Prompt{}, perr.FromPostgres(err, "update prompt")
	}
	return out, nil
}

// ClearDefaults drops is_default across the profile and prompt type pair
func (r *queries) ClearDefaults(ctx context.Context, profileType, promptType string) error {
	const sql = `UPDATE prompts SET is_default = FALSE, updated_at = NOW()
	             WHERE profile_type = $1 AND prompt_type = $2 AND is_default`
	if _, err := r.q.Exec(ctx, sql, profileType, promptType); err != nil {
		return perr.FromPostgres(err, "clear default prompts")
	}
	return nil
}

// MarkDefault flags one prompt as the default
func (r *queries) MarkDefault(ctx context.Context, id string) error {
	const sql = `UPDATE prompts SET is_default = TRUE, updated_at = NOW()
	             WHERE id = $1::uuid`
	tag, err := r.q.Exec(ctx, sql, id)
	if err != nil {
		return perr.FromPostgres(err, "mark default prompt")
	}
	if tag != nil && tag.RowsAffected() == 0 {
		return perr.NotFoundf("prompt %s not found", id)
	}
	return nil
}

// Delete removes the prompt row
func (r *queries) Delete(ctx context.Context, id string) error {
	const sql = `DELETE FROM prompts WHERE id = $1::uuid`
	tag, err := r.q.Exec(ctx, sql, id)
	if err != nil {
		return perr.FromPostgres(err, "delete prompt")
	}
	if tag != nil && tag.RowsAffected() == 0 {
		return perr.NotFoundf("prompt %s not found", id)
	}
	return nil
}

// List returns every prompt, newest first
func (r *queries) List(ctx context.Context) ([]domain.Prompt, error) {
	const sql = `SELECT ` + promptCols + ` FROM prompts ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, sql)
	if err != nil {
		return nil, perr.FromPostgres(err, "list prompts")
	}
	defer rows.Close()

	var out []domain.Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, perr.FromPostgres(err, "scan prompt")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ActiveDefault returns the active default prompt for the pair, preferring
// the default flag and falling back to the newest active prompt
func (r *queries) ActiveDefault(ctx context.Context, profileType, promptType string) (domain.Prompt, error) {
	const sql = `SELECT ` + promptCols + `
	             FROM prompts
	             WHERE profile_type = $1 AND prompt_type = $2 AND is_active
	             ORDER BY is_default DESC, created_at DESC
	             LIMIT 1`
	out, err := scanPrompt(r.q.QueryRow(ctx, sql, profileType, promptType))
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.Prompt{}, perr.NotFoundf("no active %s prompt for profile %s", promptType, profileType)
		}
		return domain.Prompt{}, perr.FromPostgres(err, "load active prompt")
	}
	return out, nil
}
