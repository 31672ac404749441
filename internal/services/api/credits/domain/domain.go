// Package domain defines response shapes for the credits API
package domain

import (
	"time"

	creditsdom "domainsift/internal/services/credits/domain"
)

// BalanceResult is the balance response payload
type BalanceResult struct {
	Credits int64  `json:"credits"`
	Role    string `json:"role"`
}

// TransactionItem is one ledger row on the wire
type TransactionItem struct {
	ID              string    `json:"id"`
	Amount          int64     `json:"amount"`
	TransactionType string    `json:"transaction_type"`
	Description     string    `json:"description"`
	AnalysisID      *string   `json:"analysis_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// TransactionsResult is the transactions response payload
type TransactionsResult struct {
	Transactions []TransactionItem `json:"transactions"`
}

// FromLedger maps ledger rows to wire items, never nil
func FromLedger(rows []creditsdom.Transaction) TransactionsResult {
	items := make([]TransactionItem, 0, len(rows))
	for _, tx := range rows {
		items = append(items, TransactionItem{
			ID:              tx.ID,
			Amount:          tx.Amount,
			TransactionType: tx.Type,
			Description:     tx.Desc,
			AnalysisID:      tx.AnalysisID,
			CreatedAt:       tx.CreatedAt,
		})
	}
	return TransactionsResult{Transactions: items}
}
