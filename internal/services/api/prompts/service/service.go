// Package service implements the prompt registry
package service

import (
	"context"

	"domainsift/internal/core/profile"
	"domainsift/internal/modkit/repokit"
	perr "domainsift/internal/platform/errors"
	"domainsift/internal/services/api/prompts/domain"
)

// Svc implements domain.ServicePort
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.Repo]
}

// Compile-time assertion: Svc implements domain.ServicePort
var _ domain.ServicePort = (*Svc)(nil)

// New constructs the prompts service
func New(db repokit.TxRunner, binder repokit.Binder[domain.Repo]) *Svc {
	if db == nil {
		panic("prompts.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("prompts.Service requires a non-nil Repo binder")
	}
	return &Svc{db: db, binder: binder}
}

// Create persists a new active prompt at version 1
func (s *Svc) Create(ctx context.Context, createdBy string, in domain.CreateInput) (domain.Prompt, error) {
	if in.Name == "" || in.Content == "" {
		return domain.Prompt{}, perr.Validationf("name and content are required")
	}
	if !profile.Valid(in.ProfileType) {
		return domain.Prompt{}, perr.Validationf("invalid profile type %q", in.ProfileType)
	}
	if !domain.ValidType(in.PromptType) {
		return domain.Prompt{}, perr.Validationf("invalid prompt type %q", in.PromptType)
	}
	return s.binder.Bind(s.db).Insert(ctx, domain.Prompt{
		Name:        in.Name,
		ProfileType: in.ProfileType,
		PromptType:  in.PromptType,
		Content:     in.Content,
		Variables:   in.Variables,
		CreatedBy:   createdBy,
	})
}

// Update applies the provided fields. A content change bumps the version
func (s *Svc) Update(ctx context.Context, in domain.UpdateInput) (domain.Prompt, error) {
	var out domain.Prompt
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		repo := s.binder.Bind(q)
		p, err := repo.Get(ctx, in.ID)
		if err != nil {
			return err
		}
		if in.Name != nil {
			p.Name = *in.Name
		}
		if in.Content != nil && *in.Content != p.Content {
			p.Content = *in.Content
			p.Version++
		}
		if in.Variables != nil {
			p.Variables = *in.Variables
		}
		if in.IsActive != nil {
			p.IsActive = *in.IsActive
		}
		out, err = repo.Update(ctx, p)
		return err
	})
	return out, err
}

// SetDefault makes the prompt the sole default for its profile and prompt
// type pair, in one transaction
func (s *Svc) SetDefault(ctx context.Context, in domain.RefInput) (domain.Prompt, error) {
	var out domain.Prompt
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		repo := s.binder.Bind(q)
		p, err := repo.Get(ctx, in.ID)
		if err != nil {
			return err
		}
		if err := repo.ClearDefaults(ctx, p.ProfileType, p.PromptType); err != nil {
			return err
		}
		if err := repo.MarkDefault(ctx, p.ID); err != nil {
			return err
		}
		out, err = repo.Get(ctx, p.ID)
		return err
	})
	return out, err
}

// Delete removes the prompt
func (s *Svc) Delete(ctx context.Context, in domain.RefInput) error {
	return s.binder.Bind(s.db).Delete(ctx, in.ID)
}

// List returns every prompt, newest first
func (s *Svc) List(ctx context.Context) (domain.ListResult, error) {
	rows, err := s.binder.Bind(s.db).List(ctx)
	if err != nil {
		return domain.ListResult{}, err
	}
	if rows == nil {
		rows = []domain.Prompt{}
	}
	return domain.ListResult{Prompts: rows}, nil
}

// Active returns the active default prompt for the pair
func (s *Svc) Active(ctx context.Context, in domain.ActiveInput) (domain.Prompt, error) {
	if !profile.Valid(in.ProfileType) {
		return domain.Prompt{}, perr.Validationf("invalid profile type %q", in.ProfileType)
	}
	if !domain.ValidType(in.PromptType) {
		return domain.Prompt{}, perr.Validationf("invalid prompt type %q", in.PromptType)
	}
	return s.binder.Bind(s.db).ActiveDefault(ctx, in.ProfileType, in.PromptType)
}
