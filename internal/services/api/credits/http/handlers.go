// Package http provides HTTP transport for the credits API
package http

import (
	stdhttp "net/http"
	"strconv"

	"domainsift/internal/modkit/httpkit"
	"domainsift/internal/services/api/credits/domain"
	creditsdom "domainsift/internal/services/credits/domain"
)

// Register mounts credits endpoints on the given router
func Register(r httpkit.Router, ledger creditsdom.LedgerPort) {
	h := &handlers{ledger: ledger}

	httpkit.Get(r, "/balance", h.balance)
	httpkit.Get(r, "/transactions", h.transactions)
}

type handlers struct{ ledger creditsdom.LedgerPort }

// swagger:route GET /credits/balance Credits creditsBalance
// @Summary Current credit balance for the authenticated owner
// @Tags Credits
// @Produce json
// @Success 200 {object} domain.BalanceResult "ok"
// @Router /credits/balance [get]
func (h *handlers) balance(r *stdhttp.Request) (any, error) {
	owner, err := httpkit.Owner(r)
	if err != nil {
		return nil, err
	}
	acct, err := h.ledger.Lookup(r.Context(), owner)
	if err != nil {
		return nil, err
	}
	return domain.BalanceResult{Credits: acct.Credits, Role: acct.Role}, nil
}

// swagger:route GET /credits/transactions Credits creditsTransactions
// @Summary Recent ledger rows for the authenticated owner, newest first
// @Tags Credits
// @Produce json
// @Param limit query int false "Max rows (default 50, cap 200)"
// @Success 200 {object} domain.TransactionsResult "ok"
// @Router /credits/transactions [get]
func (h *handlers) transactions(r *stdhttp.Request) (any, error) {
	owner, err := httpkit.Owner(r)
	if err != nil {
		return nil, err
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := h.ledger.Transactions(r.Context(), owner, limit)
	if err != nil {
		return nil, err
	}
	return domain.FromLedger(rows), nil
}
