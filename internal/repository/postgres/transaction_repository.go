package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/cassiomorais/fintrack/internal/domain/errors"
	"github.com/cassiomorais/fintrack/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository implements transaction.Repository using PostgreSQL.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Create inserts a new transaction.
func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO transactions (id, owner_id, kind, category, amount, description, date, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		t.ID, t.OwnerID, string(t.Kind), string(t.Category),
		centsToNumericString(t.AmountCents), t.Description, t.Date, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a transaction by id for one owner. A transaction
// belonging to a different owner is reported as not found.
func (r *TransactionRepository) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*transaction.Transaction, error) {
	return r.scanTransaction(r.pool.QueryRow(ctx,
		`SELECT id, owner_id, kind, category, amount, description, date, created_at
		 FROM transactions WHERE id = $1 AND owner_id = $2`, id, ownerID))
}

// Update persists the mutable fields of an existing transaction.
func (r *TransactionRepository) Update(ctx context.Context, t *transaction.Transaction) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE transactions SET
		  kind=$1, category=$2, amount=$3, description=$4, date=$5
		 WHERE id=$6 AND owner_id=$7`,
		string(t.Kind), string(t.Category), centsToNumericString(t.AmountCents),
		t.Description, t.Date, t.ID, t.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrTransactionNotFound
	}
	return nil
}

// Delete removes a transaction by id for one owner.
func (r *TransactionRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrTransactionNotFound
	}
	return nil
}

// List returns one page of transactions plus the unpaginated total,
// sorted by date descending with insertion order breaking ties.
func (r *TransactionRepository) List(ctx context.Context, f transaction.ListFilter) ([]*transaction.Transaction, int, error) {
	where := " WHERE owner_id = $1"
	args := []any{f.OwnerID}
	argIdx := 2

	if f.Kind != nil {
		where += fmt.Sprintf(" AND kind = $%d", argIdx)
		args = append(args, string(*f.Kind))
		argIdx++
	}
	if f.Category != nil {
		where += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, string(*f.Category))
		argIdx++
	}
	where, args, argIdx = appendWindow(where, args, argIdx, f.Window)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	pageSize := f.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	query := `SELECT id, owner_id, kind, category, amount, description, date, created_at
		 FROM transactions` + where +
		fmt.Sprintf(" ORDER BY date DESC, created_at ASC, id ASC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*transaction.Transaction
	for rows.Next() {
		t, err := r.scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		txns = append(txns, t)
	}
	return txns, total, rows.Err()
}

// SumByKind groups matching transactions by kind.
func (r *TransactionRepository) SumByKind(ctx context.Context, ownerID uuid.UUID, w transaction.Window) ([]transaction.KindTotal, error) {
	where := " WHERE owner_id = $1"
	args := []any{ownerID}
	where, args, _ = appendWindow(where, args, 2, w)

	rows, err := r.pool.Query(ctx,
		`SELECT kind, SUM(amount)::text, COUNT(*) FROM transactions`+where+` GROUP BY kind`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("sum by kind: %w", err)
	}
	defer rows.Close()

	var totals []transaction.KindTotal
	for rows.Next() {
		var (
			kind      string
			amountStr string
			count     int
		)
		if err := rows.Scan(&kind, &amountStr, &count); err != nil {
			return nil, fmt.Errorf("scan kind total: %w", err)
		}
		cents, err := numericStringToCents(amountStr)
		if err != nil {
			return nil, fmt.Errorf("parse kind total: %w", err)
		}
		totals = append(totals, transaction.KindTotal{
			Kind:        transaction.Kind(kind),
			AmountCents: cents,
			Count:       count,
		})
	}
	return totals, rows.Err()
}

// SumExpensesByCategory groups matching expense transactions by category.
// Order is by amount descending then category for determinism.
func (r *TransactionRepository) SumExpensesByCategory(ctx context.Context, ownerID uuid.UUID, w transaction.Window) ([]transaction.CategoryTotal, error) {
	where := " WHERE owner_id = $1 AND kind = $2"
	args := []any{ownerID, string(transaction.KindExpense)}
	where, args, _ = appendWindow(where, args, 3, w)

	rows, err := r.pool.Query(ctx,
		`SELECT category, SUM(amount)::text FROM transactions`+where+
			` GROUP BY category ORDER BY SUM(amount) DESC, category ASC`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("sum by category: %w", err)
	}
	defer rows.Close()

	var totals []transaction.CategoryTotal
	for rows.Next() {
		var (
			category  string
			amountStr string
		)
		if err := rows.Scan(&category, &amountStr); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		cents, err := numericStringToCents(amountStr)
		if err != nil {
			return nil, fmt.Errorf("parse category total: %w", err)
		}
		totals = append(totals, transaction.CategoryTotal{
			Category:    transaction.Category(category),
			AmountCents: cents,
		})
	}
	return totals, rows.Err()
}

// MonthlyTotals groups transactions dated on or after from by
// (year, month, kind), ordered chronologically ascending.
func (r *TransactionRepository) MonthlyTotals(ctx context.Context, ownerID uuid.UUID, from time.Time) ([]transaction.MonthlyTotal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT EXTRACT(YEAR FROM date)::int, EXTRACT(MONTH FROM date)::int, kind, SUM(amount)::text
		 FROM transactions
		 WHERE owner_id = $1 AND date >= $2
		 GROUP BY 1, 2, kind
		 ORDER BY 1 ASC, 2 ASC, kind ASC`,
		ownerID, from)
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}
	defer rows.Close()

	var totals []transaction.MonthlyTotal
	for rows.Next() {
		var (
			year      int
			month     int
			kind      string
			amountStr string
		)
		if err := rows.Scan(&year, &month, &kind, &amountStr); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", err)
		}
		cents, err := numericStringToCents(amountStr)
		if err != nil {
			return nil, fmt.Errorf("parse monthly total: %w", err)
		}
		totals = append(totals, transaction.MonthlyTotal{
			Year:        year,
			Month:       time.Month(month),
			Kind:        transaction.Kind(kind),
			AmountCents: cents,
		})
	}
	return totals, rows.Err()
}

// appendWindow appends inclusive date bounds to a WHERE clause.
func appendWindow(where string, args []any, argIdx int, w transaction.Window) (string, []any, int) {
	if w.Start != nil {
		where += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *w.Start)
		argIdx++
	}
	if w.End != nil {
		where += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *w.End)
		argIdx++
	}
	return where, args, argIdx
}

// --- scanning helpers ---

func (r *TransactionRepository) scanTransaction(s scanner) (*transaction.Transaction, error) {
	t := &transaction.Transaction{}
	var (
		kind      string
		category  string
		amountStr string
	)
	err := s.Scan(&t.ID, &t.OwnerID, &kind, &category, &amountStr, &t.Description, &t.Date, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}

	cents, err := numericStringToCents(amountStr)
	if err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}
	t.AmountCents = cents
	t.Kind = transaction.Kind(kind)
	t.Category = transaction.Category(category)
	return t, nil
}
