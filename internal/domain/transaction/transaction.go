package transaction

import (
	"time"

	"github.com/cassiomorais/fintrack/internal/domain/errors"
	"github.com/google/uuid"
)

// Kind represents the flow direction of a transaction
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Category classifies a transaction within its kind
type Category string

const (
	// Income categories
	CategorySalary      Category = "salary"
	CategoryFreelance   Category = "freelance"
	CategoryInvestments Category = "investments"
	CategoryBusiness    Category = "business"
	CategoryOtherIncome Category = "other-income"

	// Expense categories
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryUtilities     Category = "utilities"
	CategoryEntertainment Category = "entertainment"
	CategoryShopping      Category = "shopping"
	CategoryHealthcare    Category = "healthcare"
	CategoryEducation     Category = "education"
	CategoryRent          Category = "rent"
	CategoryInsurance     Category = "insurance"
	CategoryOtherExpense  Category = "other-expense"
)

const MaxDescriptionLength = 200

var categoriesByKind = map[Kind]map[Category]struct{}{
	KindIncome: {
		CategorySalary:      {},
		CategoryFreelance:   {},
		CategoryInvestments: {},
		CategoryBusiness:    {},
		CategoryOtherIncome: {},
	},
	KindExpense: {
		CategoryFood:          {},
		CategoryTransport:     {},
		CategoryUtilities:     {},
		CategoryEntertainment: {},
		CategoryShopping:      {},
		CategoryHealthcare:    {},
		CategoryEducation:     {},
		CategoryRent:          {},
		CategoryInsurance:     {},
		CategoryOtherExpense:  {},
	},
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := categoriesByKind[k]
	return ok
}

// ValidFor reports whether c belongs to the category set of kind k.
func (c Category) ValidFor(k Kind) bool {
	set, ok := categoriesByKind[k]
	if !ok {
		return false
	}
	_, ok = set[c]
	return ok
}

// Transaction represents a single ledger entry owned by one user.
// Amounts are held in cents to keep sums exact.
type Transaction struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Kind        Kind
	Category    Category
	AmountCents int64
	Description string
	Date        time.Time
	CreatedAt   time.Time
}

// New creates a validated transaction. A zero date defaults to now.
func New(ownerID uuid.UUID, kind Kind, category Category, amountCents int64, description string, date time.Time) (*Transaction, error) {
	now := time.Now()
	if date.IsZero() {
		date = now
	}

	t := &Transaction{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Kind:        kind,
		Category:    category,
		AmountCents: amountCents,
		Description: description,
		Date:        date,
		CreatedAt:   now,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Update holds a partial set of transaction fields. Nil means "leave
// unchanged"; a non-nil empty Description clears the field.
type Update struct {
	Kind        *Kind
	Category    *Category
	AmountCents *int64
	Description *string
	Date        *time.Time
}

// Apply applies the provided fields and revalidates the result.
func (t *Transaction) Apply(u Update) error {
	updated := *t
	if u.Kind != nil {
		updated.Kind = *u.Kind
	}
	if u.Category != nil {
		updated.Category = *u.Category
	}
	if u.AmountCents != nil {
		updated.AmountCents = *u.AmountCents
	}
	if u.Description != nil {
		updated.Description = *u.Description
	}
	if u.Date != nil {
		updated.Date = *u.Date
	}

	if err := updated.Validate(); err != nil {
		return err
	}
	*t = updated
	return nil
}

// Validate checks the kind/category pairing and field constraints.
func (t *Transaction) Validate() error {
	if t.OwnerID == uuid.Nil {
		return errors.NewValidationError("owner_id", "cannot be empty")
	}
	if !t.Kind.Valid() {
		return errors.NewValidationError("kind", "must be income or expense")
	}
	if t.AmountCents < 0 {
		return errors.NewValidationError("amount", "must not be negative")
	}
	if !t.Category.ValidFor(t.Kind) {
		return errors.NewValidationError("category", "not valid for kind "+string(t.Kind))
	}
	if len(t.Description) > MaxDescriptionLength {
		return errors.NewValidationError("description", "cannot exceed 200 characters")
	}
	return nil
}
