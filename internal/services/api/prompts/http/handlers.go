// Package http provides HTTP transport for the prompt registry
package http

import (
	stdhttp "net/http"

	"domainsift/internal/modkit/httpkit"
	"domainsift/internal/services/api/prompts/domain"
)

// Register mounts prompt endpoints on the given router.
// Mutations are admin-only, the active lookup is open to any owner
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/list", h.list)
	httpkit.PostJSON[domain.CreateInput](r, "/create", h.create)
	httpkit.PostJSON[domain.UpdateInput](r, "/update", h.update)
	httpkit.PostJSON[domain.RefInput](r, "/set-default", h.setDefault)
	httpkit.PostJSON[domain.RefInput](r, "/delete", h.del)
	httpkit.PostJSON[domain.ActiveInput](r, "/active", h.active)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route GET /prompts/list Prompts promptsList
// @Summary List every prompt template (admin)
// @Tags Prompts
// @Produce json
// @Success 200 {object} domain.ListResult "ok"
// @Router /prompts/list [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	if err := httpkit.RequireAdmin(r); err != nil {
		return nil, err
	}
	return h.svc.List(r.Context())
}

// swagger:route POST /prompts/create Prompts promptsCreate
// @Summary Create a prompt template (admin)
// @Tags Prompts
// @Accept json
// @Produce json
// @Param payload body domain.CreateInput true "Prompt"
// @Success 200 {object} domain.Prompt "ok"
// @Router /prompts/create [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	if err := httpkit.RequireAdmin(r); err != nil {
		return nil, err
	}
	owner, err := httpkit.Owner(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Create(r.Context(), owner, in)
}

// swagger:route POST /prompts/update Prompts promptsUpdate
// @Summary Update a prompt template (admin)
// @Tags Prompts
// @Accept json
// @Produce json
// @Param payload body domain.UpdateInput true "Changes"
// @Success 200 {object} domain.Prompt "ok"
// @Router /prompts/update [post]
func (h *handlers) update(r *stdhttp.Request, in domain.UpdateInput) (any, error) {
	if err := httpkit.RequireAdmin(r); err != nil {
		return nil, err
	}
	return h.svc.Update(r.Context(), in)
}

// swagger:route POST /prompts/set-default Prompts promptsSetDefault
// @Summary Make a prompt the default for its profile and type (admin)
// @Tags Prompts
// @Accept json
// @Produce json
// @Param payload body domain.RefInput true "Prompt reference"
// @Success 200 {object} domain.Prompt "ok"
// @Router /prompts/set-default [post]
func (h *handlers) setDefault(r *stdhttp.Request, in domain.RefInput) (any, error) {
	if err := httpkit.RequireAdmin(r); err != nil {
		return nil, err
	}
	return h.svc.SetDefault(r.Context(), in)
}

// swagger:route POST /prompts/delete Prompts promptsDelete
// @Summary Delete a prompt template (admin)
// @Tags Prompts
// @Accept json
// @Produce json
// @Param payload body domain.RefInput true "Prompt reference"
// @Success 200 {object} map[string]string "deleted"
// @Router /prompts/delete [post]
func (h *handlers) del(r *stdhttp.Request, in domain.RefInput) (any, error) {
	if err := httpkit.RequireAdmin(r); err != nil {
		return nil, err
	}
	if err := h.svc.Delete(r.Context(), in); err != nil {
		return nil, err
	}
	return map[string]string{"message": "prompt deleted"}, nil
}

// swagger:route POST /prompts/active Prompts promptsActive
// @Summary Resolve the active default prompt for a profile and type
// @Tags Prompts
// @Accept json
// @Produce json
// @Param payload body domain.ActiveInput true "Selector"
// @Success 200 {object} domain.Prompt "ok"
// @Router /prompts/active [post]
func (h *handlers) active(r *stdhttp.Request, in domain.ActiveInput) (any, error) {
	if _, err := httpkit.Owner(r); err != nil {
		return nil, err
	}
	return h.svc.Active(r.Context(), in)
}
