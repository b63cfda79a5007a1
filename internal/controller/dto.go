package controller

import (
	"time"

	"github.com/cassiomorais/fintrack/internal/domain/transaction"
	"github.com/cassiomorais/fintrack/internal/domain/user"
	"github.com/cassiomorais/fintrack/internal/service"
)

// --- Request DTOs ---
// These DTOs handle HTTP/JSON concerns (float64 for money, string for
// dates, validation tags). Controllers convert them to service layer
// inputs before calling business logic.

// RegisterRequest holds the input for registering a user.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest holds the input for logging in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateTransactionRequest holds the input for creating a transaction.
// Amount is a pointer so that an explicit zero passes "required".
type CreateTransactionRequest struct {
	Kind        string   `json:"kind" validate:"required,oneof=income expense"`
	Amount      *float64 `json:"amount" validate:"required,gte=0"`
	Category    string   `json:"category" validate:"required"`
	Description string   `json:"description" validate:"omitempty,max=200"`
	Date        string   `json:"date" validate:"omitempty"`
}

// UpdateTransactionRequest holds a partial update. Absent fields stay
// unchanged; an explicit empty description clears the field.
type UpdateTransactionRequest struct {
	Kind        *string  `json:"kind" validate:"omitempty,oneof=income expense"`
	Amount      *float64 `json:"amount" validate:"omitempty,gte=0"`
	Category    *string  `json:"category" validate:"omitempty"`
	Description *string  `json:"description" validate:"omitempty,max=200"`
	Date        *string  `json:"date" validate:"omitempty"`
}

// --- Response DTOs ---

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse carries a user and a signed token.
type AuthResponse struct {
	User  *UserResponse `json:"user"`
	Token string        `json:"token"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListTransactionsResponse is one page of transactions.
type ListTransactionsResponse struct {
	Items       []*TransactionResponse `json:"items"`
	TotalPages  int                    `json:"totalPages"`
	CurrentPage int                    `json:"currentPage"`
	Total       int                    `json:"total"`
}

// SummaryResponse represents per-kind totals for a window.
type SummaryResponse struct {
	Income       float64 `json:"income"`
	Expense      float64 `json:"expense"`
	Balance      float64 `json:"balance"`
	IncomeCount  int     `json:"incomeCount"`
	ExpenseCount int     `json:"expenseCount"`
}

// CategoryAmountResponse is one row of the category breakdown.
type CategoryAmountResponse struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// BreakdownResponse wraps the expense category breakdown.
type BreakdownResponse struct {
	Breakdown []CategoryAmountResponse `json:"breakdown"`
}

// TrendRowResponse is one month of the income/expense trend.
type TrendRowResponse struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// TrendResponse wraps the monthly trend.
type TrendResponse struct {
	Trend []TrendRowResponse `json:"trend"`
}

// OverviewStatsResponse carries the derived dashboard statistics.
type OverviewStatsResponse struct {
	TopCategory   string  `json:"topCategory"`
	SavingsRate   float64 `json:"savingsRate"`
	IncomeChange  float64 `json:"incomeChange"`
	ExpenseChange float64 `json:"expenseChange"`
}

// OverviewResponse bundles every dashboard view.
type OverviewResponse struct {
	Summary   SummaryResponse          `json:"summary"`
	Breakdown []CategoryAmountResponse `json:"breakdown"`
	Trend     []TrendRowResponse       `json:"trend"`
	Stats     OverviewStatsResponse    `json:"stats"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// --- Conversion helpers ---

// FromUser converts a domain user to API response.
func FromUser(u *user.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// FromTransaction converts a domain transaction to API response.
func FromTransaction(t *transaction.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID.String(),
		Kind:        string(t.Kind),
		Category:    string(t.Category),
		Amount:      centsToFloat(t.AmountCents),
		Description: t.Description,
		Date:        t.Date,
		CreatedAt:   t.CreatedAt,
	}
}

// FromSummary converts a service summary to API response.
func FromSummary(s *service.Summary) SummaryResponse {
	return SummaryResponse{
		Income:       centsToFloat(s.IncomeCents),
		Expense:      centsToFloat(s.ExpenseCents),
		Balance:      centsToFloat(s.BalanceCents),
		IncomeCount:  s.IncomeCount,
		ExpenseCount: s.ExpenseCount,
	}
}

// FromBreakdown converts a service breakdown to API response rows.
func FromBreakdown(breakdown []service.CategoryAmount) []CategoryAmountResponse {
	rows := make([]CategoryAmountResponse, 0, len(breakdown))
	for _, row := range breakdown {
		rows = append(rows, CategoryAmountResponse{
			Category: string(row.Category),
			Amount:   centsToFloat(row.AmountCents),
		})
	}
	return rows
}

// FromTrend converts service trend rows to API response rows.
func FromTrend(trend []service.TrendRow) []TrendRowResponse {
	rows := make([]TrendRowResponse, 0, len(trend))
	for _, row := range trend {
		rows = append(rows, TrendRowResponse{
			Month:   row.Month,
			Income:  centsToFloat(row.IncomeCents),
			Expense: centsToFloat(row.ExpenseCents),
		})
	}
	return rows
}
