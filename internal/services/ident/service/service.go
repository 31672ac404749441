// Package service resolves bearer tokens to accounts
package service

import (
	"context"

	"domainsift/internal/modkit/repokit"
	perr "domainsift/internal/platform/errors"
	"domainsift/internal/services/ident/domain"
)

// Svc implements domain.ResolverPort
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.Repo]
}

// Compile-time assertion: Svc implements domain.ResolverPort
var _ domain.ResolverPort = (*Svc)(nil)

// New constructs the ident service
func New(db repokit.TxRunner, binder repokit.Binder[domain.Repo]) *Svc {
	if db == nil {
		panic("ident.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("ident.Service requires a non-nil Repo binder")
	}
	return &Svc{db: db, binder: binder}
}

// Resolve hashes the presented token and looks up the owning account.
// Unknown tokens are unauthorized, never an internal error
func (s *Svc) Resolve(ctx context.Context, token string) (string, string, error) {
	if token == "" {
		return "", "", perr.Unauthorizedf("missing bearer token")
	}
	p, ok, err := s.binder.Bind(s.db).ByTokenHash(ctx, domain.TokenHash(token))
	if err != nil {
		return "", "", err
	}
	if !ok {
		return "", "", perr.Unauthorizedf("invalid bearer token")
	}
	return p.OwnerID, p.Role, nil
}
