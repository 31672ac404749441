// Package http provides HTTP transport for the sessions API
package http

import (
	stdhttp "net/http"

	"domainsift/internal/modkit/httpkit"
	"domainsift/internal/services/api/sessions/domain"
)

// Register mounts session endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.CreateInput](r, "/create", h.create)
	httpkit.PostJSON[domain.ProcessInput](r, "/process", h.process)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route POST /sessions/create Sessions sessionsCreate
// @Summary Create a batch session with its domain tasks
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body domain.CreateInput true "Session"
// @Success 200 {object} domain.CreateResult "ok"
// @Router /sessions/create [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	owner, err := httpkit.Owner(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Create(r.Context(), owner, in)
}

// swagger:route POST /sessions/process Sessions sessionsProcess
// @Summary Claim and dispatch one batch of pending domains
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body domain.ProcessInput true "Session reference"
// @Success 200 {object} batchdom.ProcessAck "ok"
// @Router /sessions/process [post]
func (h *handlers) process(r *stdhttp.Request, in domain.ProcessInput) (any, error) {
	owner, err := httpkit.Owner(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Process(r.Context(), owner, in)
}
