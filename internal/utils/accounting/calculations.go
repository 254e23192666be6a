package accounting

import (
	"time"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SumAmounts adds raw amounts as stored, without applying any type sign.
// Callers pre-filter by type when the sign matters.
func SumAmounts(transactions []domain.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, txn := range transactions {
		sum = sum.Add(txn.Amount)
	}
	return sum
}

// DeriveBalance computes an account balance from its transaction records and
// returns the applied entries that describe it. Records claimed by a pending
// delete contribute zero but still get an entry at their current revision.
func DeriveBalance(accountID string, transactions []domain.Transaction, appliedAt time.Time) (decimal.Decimal, []domain.AppliedEntry) {
	balance := decimal.Zero
	entries := make([]domain.AppliedEntry, 0, len(transactions))
	for _, txn := range transactions {
		contribution := txn.Contribution()
		balance = balance.Add(contribution)
		entries = append(entries, domain.AppliedEntry{
			AccountID:     accountID,
			TransactionID: txn.TransactionID,
			Revision:      txn.Revision,
			Contribution:  contribution,
			AppliedAt:     appliedAt,
		})
	}
	return balance, entries
}

// SummarizeByType totals amounts per transaction type. Net is income minus expense.
func SummarizeByType(transactions []domain.Transaction) domain.TypeSummary {
	byType := map[domain.TransactionType][]domain.Transaction{}
	for _, txn := range transactions {
		byType[txn.Type] = append(byType[txn.Type], txn)
	}
	summary := domain.TypeSummary{
		Income:   SumAmounts(byType[domain.Income]),
		Expense:  SumAmounts(byType[domain.Expense]),
		Transfer: SumAmounts(byType[domain.Transfer]),
	}
	summary.Net = summary.Income.Sub(summary.Expense)
	return summary
}
