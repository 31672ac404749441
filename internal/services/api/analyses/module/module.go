// Package module wires the analyses API into HTTP via modkit
package module

import (
	"net/http"

	"domainsift/internal/adapters/classify"
	"domainsift/internal/modkit"
	"domainsift/internal/modkit/httpkit"
	"domainsift/internal/platform/strings"
	"domainsift/internal/services/api/analyses/domain"
	creditsdom "domainsift/internal/services/credits/domain"

	analyseshttp "domainsift/internal/services/api/analyses/http"
	"domainsift/internal/services/api/analyses/repo"
	"domainsift/internal/services/api/analyses/service"
)

// Ports exposes the service port for cross-module lookups
type Ports struct {
	Service domain.ServicePort
}

// Module implements the analyses module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports Ports

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc *service.Svc
}

// New constructs the analyses module
func New(deps modkit.Deps, classifier classify.Classifier, ledger creditsdom.LedgerPort, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("analyses"), modkit.WithPrefix("/analyses")}, opts...)...)

	svc := service.New(deps.PG, repo.NewPG(), classifier, ledger)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Service: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		analyseshttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name is the module name
func (m *Module) Name() string { return strings.MustString(m.name, "module name") }

// Prefix is the module route prefix
func (m *Module) Prefix() string { return strings.MustPrefix(m.prefix) }

// Middlewares is the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
