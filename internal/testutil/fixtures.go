package testutil

import (
	"time"

	"github.com/cassiomorais/fintrack/internal/domain/transaction"
	"github.com/cassiomorais/fintrack/internal/domain/user"
	"github.com/google/uuid"
)

func NewTestTransaction(ownerID uuid.UUID, kind transaction.Kind, category transaction.Category, amountCents int64, date time.Time) *transaction.Transaction {
	return &transaction.Transaction{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Kind:        kind,
		Category:    category,
		AmountCents: amountCents,
		Date:        date,
		CreatedAt:   time.Now(),
	}
}

func NewTestUser(name, email string) *user.User {
	u, err := user.New(name, email, "password123")
	if err != nil {
		panic(err)
	}
	return u
}

func KindPtr(k transaction.Kind) *transaction.Kind {
	return &k
}

func CategoryPtr(c transaction.Category) *transaction.Category {
	return &c
}

func Int64Ptr(v int64) *int64 {
	return &v
}

func StringPtr(s string) *string {
	return &s
}

func TimePtr(t time.Time) *time.Time {
	return &t
}
