// Package http provides HTTP transport for the analyses API
package http

import (
	stdhttp "net/http"

	"domainsift/internal/modkit/httpkit"
	"domainsift/internal/services/api/analyses/domain"
)

// Register mounts analyses endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.AnalyzeInput](r, "/analyze", h.analyze)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route POST /analyses/analyze Analyses analysesAnalyze
// @Summary Classify one domain synchronously
// @Tags Analyses
// @Accept json
// @Produce json
// @Param payload body domain.AnalyzeInput true "Domain"
// @Success 200 {object} domain.AnalyzeResult "ok"
// @Router /analyses/analyze [post]
func (h *handlers) analyze(r *stdhttp.Request, in domain.AnalyzeInput) (any, error) {
	owner, err := httpkit.Owner(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Analyze(r.Context(), owner, in)
}
