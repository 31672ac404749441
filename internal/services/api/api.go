// Package api provides the HTTP API for the application
package api

import (
	"context"

	"domainsift/internal/platform/config"
	"domainsift/internal/platform/logger"
	phttp "domainsift/internal/platform/net/http"
	"domainsift/internal/platform/store"

	"domainsift/internal/modkit"
	"domainsift/internal/modkit/httpkit"
	"domainsift/internal/modkit/module"
	"domainsift/internal/modkit/swaggerkit"

	"domainsift/internal/adapters/classify"

	analysesmod "domainsift/internal/services/api/analyses/module"
	creditsapimod "domainsift/internal/services/api/credits/module"
	metamod "domainsift/internal/services/api/meta/module"
	promptsmod "domainsift/internal/services/api/prompts/module"
	sessionsmod "domainsift/internal/services/api/sessions/module"

	// Worker batch module (owns the Processor port)
	batchmod "domainsift/internal/services/batch/module"

	creditsrepo "domainsift/internal/services/credits/repo"
	creditssvc "domainsift/internal/services/credits/service"
	identrepo "domainsift/internal/services/ident/repo"
	identsvc "domainsift/internal/services/ident/service"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Runtime exposes the long-lived pieces the composition root must manage
type Runtime struct {
	// Batch owns the detached slice pool, drained on shutdown
	Batch *batchmod.Module
}

// Mount mounts the API service onto the given router and returns the
// runtime handles for shutdown wiring
func Mount(r phttp.Router, opt Options) *Runtime {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}

	// shared services consumed across modules
	ledger := creditssvc.New(deps.PG, creditsrepo.NewPG())
	classifier := classify.NewClient(classify.FromConfig(opt.Config))
	resolver := identsvc.New(deps.PG, identrepo.NewPG())

	// bearer auth for every owner-scoped module
	authMW := httpkit.Auth(httpkit.NewPortFunc(func(token string) (string, string, error) {
		return resolver.Resolve(context.Background(), token)
	}))

	// Construct the WORKER batch module first and extract its Processor port
	batch := batchmod.New(deps, classifier, ledger, batchmod.Options{})
	processor := module.MustPortsOf[batchmod.Ports](batch).Processor

	mods := []module.Module{
		metamod.New(deps),
		sessionsmod.New(deps, ledger, processor, modkit.WithMiddlewares(authMW)),
		analysesmod.New(deps, classifier, ledger, modkit.WithMiddlewares(authMW)),
		promptsmod.New(deps, modkit.WithMiddlewares(authMW)),
		creditsapimod.New(deps, ledger, modkit.WithMiddlewares(authMW)),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		// register the worker's ports even though it mounts no routes
		module.Register(batch.Name(), batch.Ports())

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})

	return &Runtime{Batch: batch}
}
