// Package module wires the sessions API into HTTP via modkit
package module

import (
	"net/http"

	"domainsift/internal/core/profile"
	"domainsift/internal/modkit"
	"domainsift/internal/modkit/httpkit"
	"domainsift/internal/platform/net/http/bind"
	"domainsift/internal/platform/strings"
	"domainsift/internal/services/api/sessions/domain"
	batchdom "domainsift/internal/services/batch/domain"
	creditsdom "domainsift/internal/services/credits/domain"

	sessionshttp "domainsift/internal/services/api/sessions/http"
	"domainsift/internal/services/api/sessions/repo"
	"domainsift/internal/services/api/sessions/service"
)

// Ports exposes the service port for cross-module lookups
type Ports struct {
	Service domain.ServicePort
}

// Module implements the sessions module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     Ports
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc *service.Svc
}

// New constructs the sessions module. The ledger and processor come from
// the credits and batch modules via the composition root
func New(deps modkit.Deps, ledger creditsdom.LedgerPort, processor batchdom.ProcessorPort, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("sessions"), modkit.WithPrefix("/sessions")}, opts...)...)

	// profile_type validate tag rejects values outside the allow-list
	if err := bind.RegisterEnum("profile_type", profile.Valid, "must be a valid profile type"); err != nil {
		panic(err)
	}

	svc := service.New(deps.PG, repo.NewPG(), ledger, processor)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Service: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		sessionshttp.Register(r, m.svc)
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
