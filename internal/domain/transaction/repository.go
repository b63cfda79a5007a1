package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Window is an inclusive date range. A nil bound leaves that side open.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// ListFilter defines filters for listing transactions. All filters are
// conjunctive; Page is 1-based.
type ListFilter struct {
	OwnerID  uuid.UUID
	Kind     *Kind
	Category *Category
	Window   Window
	Page     int
	PageSize int
}

// KindTotal is a per-kind sum and count.
type KindTotal struct {
	Kind        Kind
	AmountCents int64
	Count       int
}

// CategoryTotal is a per-category sum.
type CategoryTotal struct {
	Category    Category
	AmountCents int64
}

// MonthlyTotal is a per-(year, month, kind) sum.
type MonthlyTotal struct {
	Year        int
	Month       time.Month
	Kind        Kind
	AmountCents int64
}

// Repository defines the interface for transaction persistence.
// Every method is scoped to one owner; reads and writes never cross
// owner boundaries.
type Repository interface {
	// Create inserts a new transaction
	Create(ctx context.Context, t *Transaction) error

	// GetByID retrieves a transaction by id for one owner
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*Transaction, error)

	// Update persists the mutable fields of an existing transaction
	Update(ctx context.Context, t *Transaction) error

	// Delete removes a transaction by id for one owner
	Delete(ctx context.Context, id, ownerID uuid.UUID) error

	// List returns one page of transactions plus the unpaginated total
	List(ctx context.Context, filter ListFilter) ([]*Transaction, int, error)

	// SumByKind groups matching transactions by kind
	SumByKind(ctx context.Context, ownerID uuid.UUID, window Window) ([]KindTotal, error)

	// SumExpensesByCategory groups matching expense transactions by category
	SumExpensesByCategory(ctx context.Context, ownerID uuid.UUID, window Window) ([]CategoryTotal, error)

	// MonthlyTotals groups transactions dated on or after from by (year, month, kind),
	// ordered chronologically ascending
	MonthlyTotals(ctx context.Context, ownerID uuid.UUID, from time.Time) ([]MonthlyTotal, error)
}
