package service

import (
	"context"

	"github.com/cassiomorais/fintrack/internal/domain/transaction"
	"github.com/google/uuid"
)

// TransactionService validates and mutates ledger entries on behalf of
// an authenticated owner. Every operation is owner-scoped; a mutation
// invalidates the owner's cached dashboard views.
type TransactionService struct {
	repo  transaction.Repository
	cache AnalyticsCache
}

// NewTransactionService creates a new TransactionService. cache may be nil.
func NewTransactionService(repo transaction.Repository, cache AnalyticsCache) *TransactionService {
	return &TransactionService{
		repo:  repo,
		cache: cache,
	}
}

// Create validates and persists a new transaction for the owner.
func (s *TransactionService) Create(ctx context.Context, ownerID uuid.UUID, in CreateTransactionInput) (*transaction.Transaction, error) {
	t, err := transaction.New(ownerID, in.Kind, in.Category, in.AmountCents, in.Description, in.Date)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return t, nil
}

// Update applies the provided fields to an existing transaction. A
// transaction owned by a different user is reported as not found.
func (s *TransactionService) Update(ctx context.Context, id, ownerID uuid.UUID, in UpdateTransactionInput) (*transaction.Transaction, error) {
	t, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	err = t.Apply(transaction.Update{
		Kind:        in.Kind,
		Category:    in.Category,
		AmountCents: in.AmountCents,
		Description: in.Description,
		Date:        in.Date,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return t, nil
}

// Delete removes a transaction under the same ownership rule as Update.
func (s *TransactionService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	s.invalidate(ctx, ownerID)
	return nil
}

// List returns a page of the owner's transactions, newest date first.
// An out-of-range page yields an empty item list, not an error.
func (s *TransactionService) List(ctx context.Context, ownerID uuid.UUID, in ListTransactionsInput) (*ListResult, error) {
	page := in.Page
	if page <= 0 {
		page = 1
	}
	pageSize := in.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	items, total, err := s.repo.List(ctx, transaction.ListFilter{
		OwnerID:  ownerID,
		Kind:     in.Kind,
		Category: in.Category,
		Window:   in.Window,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*transaction.Transaction{}
	}

	totalPages := (total + pageSize - 1) / pageSize

	return &ListResult{
		Items:       items,
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

func (s *TransactionService) invalidate(ctx context.Context, ownerID uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, ownerID)
	}
}
