// Package module wires the batch processor and exposes its ports
package module

import (
	"domainsift/internal/adapters/classify"
	"domainsift/internal/modkit"
	"domainsift/internal/modkit/httpkit"
	"domainsift/internal/services/batch/repo"
	"domainsift/internal/services/batch/service"
	creditsdom "domainsift/internal/services/credits/domain"
)

// Module defines the batch processor module
type Module struct {
	deps  modkit.Deps
	ports Ports
	svc   *service.Svc
}

// New constructs the batch module. The classifier and ledger are injected
// by the composition root
func New(deps modkit.Deps, classifier classify.Classifier, ledger creditsdom.LedgerPort, overrides Options) *Module {
	// Load defaults, then apply non-zero overrides
	opts := FromConfig(deps.Cfg)

	if overrides.BatchSize != 0 {
		opts.BatchSize = overrides.BatchSize
	}
	if overrides.LeaseTTL != 0 {
		opts.LeaseTTL = overrides.LeaseTTL
	}
	if overrides.Parallelism != 0 {
		opts.Parallelism = overrides.Parallelism
	}

	svc := service.New(deps.PG, repo.NewPG(), classifier, ledger, service.Config{
		BatchSize:   opts.BatchSize,
		LeaseTTL:    opts.LeaseTTL,
		Parallelism: opts.Parallelism,
	})

	m := &Module{deps: deps, svc: svc}
	m.ports = Ports{Processor: svc}
	return m
}

// Service exposes the processor for shutdown wiring
func (m *Module) Service() *service.Svc { return m.svc }

// Ports returns the module ports (Processor)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "batch" }

// Prefix returns the module route prefix (none for worker-only service)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
