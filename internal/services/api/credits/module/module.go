// Package module wires the credits API into HTTP via modkit
package module

import (
	"net/http"

	"domainsift/internal/modkit"
	"domainsift/internal/modkit/httpkit"
	"domainsift/internal/platform/strings"
	creditsdom "domainsift/internal/services/credits/domain"

	creditshttp "domainsift/internal/services/api/credits/http"
)

// Ports exposes the ledger port for cross-module lookups
type Ports struct {
	Ledger creditsdom.LedgerPort
}

// Module implements the credits module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports Ports

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// New constructs the credits module around an already-built ledger
func New(deps modkit.Deps, ledger creditsdom.LedgerPort, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("credits"), modkit.WithPrefix("/credits")}, opts...)...)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
	}
	m.ports = Ports{Ledger: ledger}

	external := b.Register
	m.register = func(r httpkit.Router) {
		creditshttp.Register(r, ledger)
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
