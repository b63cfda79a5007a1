package service

import (
	"context"
	"time"

	"github.com/cassiomorais/fintrack/internal/domain/transaction"
	"github.com/google/uuid"
)

// AnalyticsCache is the cache surface used by the services. Mutations
// invalidate, dashboard reads go through Get/Set. Implementations must
// degrade silently when the cache backend is unavailable.
type AnalyticsCache interface {
	Get(ctx context.Context, ownerID uuid.UUID, view string) ([]byte, bool)
	Set(ctx context.Context, ownerID uuid.UUID, view string, payload []byte)
	Invalidate(ctx context.Context, ownerID uuid.UUID)
}

// CreateTransactionInput holds the input for creating a transaction.
type CreateTransactionInput struct {
	Kind        transaction.Kind
	Category    transaction.Category
	AmountCents int64
	Description string
	Date        time.Time
}

// UpdateTransactionInput holds a partial update. Nil fields are left
// unchanged; a non-nil empty Description clears the field.
type UpdateTransactionInput struct {
	Kind        *transaction.Kind
	Category    *transaction.Category
	AmountCents *int64
	Description *string
	Date        *time.Time
}

// ListTransactionsInput holds filters and pagination for listing.
type ListTransactionsInput struct {
	Kind     *transaction.Kind
	Category *transaction.Category
	Window   transaction.Window
	Page     int
	PageSize int
}

// ListResult is one page of transactions plus pagination totals.
type ListResult struct {
	Items       []*transaction.Transaction
	Total       int
	TotalPages  int
	CurrentPage int
}

// Summary holds per-kind totals for a window. Amounts are cents.
type Summary struct {
	IncomeCents  int64 `json:"income_cents"`
	ExpenseCents int64 `json:"expense_cents"`
	BalanceCents int64 `json:"balance_cents"`
	IncomeCount  int   `json:"income_count"`
	ExpenseCount int   `json:"expense_count"`
}

// CategoryAmount is one row of an expense category breakdown.
type CategoryAmount struct {
	Category    transaction.Category `json:"category"`
	AmountCents int64                `json:"amount_cents"`
}

// TrendRow is one month of the income/expense trend.
type TrendRow struct {
	Month        string `json:"month"`
	IncomeCents  int64  `json:"income_cents"`
	ExpenseCents int64  `json:"expense_cents"`
}

// Overview bundles the dashboard views with their derived statistics.
type Overview struct {
	Summary       *Summary
	Breakdown     []CategoryAmount
	Trend         []TrendRow
	TopCategory   transaction.Category
	SavingsRate   float64
	IncomeChange  float64
	ExpenseChange float64
}
