package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/cassiomorais/fintrack/internal/domain/errors"
	"github.com/cassiomorais/fintrack/internal/domain/transaction"
	"github.com/cassiomorais/fintrack/internal/domain/user"
	"github.com/google/uuid"
)

// --- Transaction Repository Mock ---

// MockTransactionRepository is an in-memory implementation of
// transaction.Repository. It honors owner scoping, filtering, sorting
// and grouping the same way the SQL repository does.
type MockTransactionRepository struct {
	mu           sync.Mutex
	transactions map[uuid.UUID]*transaction.Transaction
	order        []uuid.UUID

	CreateFunc                func(ctx context.Context, t *transaction.Transaction) error
	GetByIDFunc               func(ctx context.Context, id, ownerID uuid.UUID) (*transaction.Transaction, error)
	UpdateFunc                func(ctx context.Context, t *transaction.Transaction) error
	DeleteFunc                func(ctx context.Context, id, ownerID uuid.UUID) error
	ListFunc                  func(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, int, error)
	SumByKindFunc             func(ctx context.Context, ownerID uuid.UUID, w transaction.Window) ([]transaction.KindTotal, error)
	SumExpensesByCategoryFunc func(ctx context.Context, ownerID uuid.UUID, w transaction.Window) ([]transaction.CategoryTotal, error)
	MonthlyTotalsFunc         func(ctx context.Context, ownerID uuid.UUID, from time.Time) ([]transaction.MonthlyTotal, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[uuid.UUID]*transaction.Transaction),
	}
}

// Add pre-populates the mock with a transaction.
func (m *MockTransactionRepository) Add(t *transaction.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[t.ID] = t
	m.order = append(m.order, t.ID)
}

func (m *MockTransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *t
	m.transactions[t.ID] = &copied
	m.order = append(m.order, t.ID)
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*transaction.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id, ownerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	if !ok || t.OwnerID != ownerID {
		return nil, domainErrors.ErrTransactionNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *MockTransactionRepository) Update(ctx context.Context, t *transaction.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.transactions[t.ID]
	if !ok || existing.OwnerID != t.OwnerID {
		return domainErrors.ErrTransactionNotFound
	}
	copied := *t
	m.transactions[t.ID] = &copied
	return nil
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, ownerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	if !ok || t.OwnerID != ownerID {
		return domainErrors.ErrTransactionNotFound
	}
	delete(m.transactions, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockTransactionRepository) List(ctx context.Context, f transaction.ListFilter) ([]*transaction.Transaction, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	matched := m.matching(f.OwnerID, f.Window, func(t *transaction.Transaction) bool {
		if f.Kind != nil && t.Kind != *f.Kind {
			return false
		}
		if f.Category != nil && t.Category != *f.Category {
			return false
		}
		return true
	})

	// date desc, insertion order breaks ties
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date)
	})

	total := len(matched)
	start := (f.Page - 1) * f.PageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + f.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *MockTransactionRepository) SumByKind(ctx context.Context, ownerID uuid.UUID, w transaction.Window) ([]transaction.KindTotal, error) {
	if m.SumByKindFunc != nil {
		return m.SumByKindFunc(ctx, ownerID, w)
	}
	byKind := make(map[transaction.Kind]*transaction.KindTotal)
	for _, t := range m.matching(ownerID, w, nil) {
		total, ok := byKind[t.Kind]
		if !ok {
			total = &transaction.KindTotal{Kind: t.Kind}
			byKind[t.Kind] = total
		}
		total.AmountCents += t.AmountCents
		total.Count++
	}
	var totals []transaction.KindTotal
	for _, kind := range []transaction.Kind{transaction.KindIncome, transaction.KindExpense} {
		if total, ok := byKind[kind]; ok {
			totals = append(totals, *total)
		}
	}
	return totals, nil
}

func (m *MockTransactionRepository) SumExpensesByCategory(ctx context.Context, ownerID uuid.UUID, w transaction.Window) ([]transaction.CategoryTotal, error) {
	if m.SumExpensesByCategoryFunc != nil {
		return m.SumExpensesByCategoryFunc(ctx, ownerID, w)
	}
	byCategory := make(map[transaction.Category]int64)
	for _, t := range m.matching(ownerID, w, func(t *transaction.Transaction) bool {
		return t.Kind == transaction.KindExpense
	}) {
		byCategory[t.Category] += t.AmountCents
	}
	totals := make([]transaction.CategoryTotal, 0, len(byCategory))
	for category, cents := range byCategory {
		totals = append(totals, transaction.CategoryTotal{Category: category, AmountCents: cents})
	}
	// amount desc, category asc, matching the SQL ORDER BY
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].AmountCents != totals[j].AmountCents {
			return totals[i].AmountCents > totals[j].AmountCents
		}
		return strings.Compare(string(totals[i].Category), string(totals[j].Category)) < 0
	})
	return totals, nil
}

func (m *MockTransactionRepository) MonthlyTotals(ctx context.Context, ownerID uuid.UUID, from time.Time) ([]transaction.MonthlyTotal, error) {
	if m.MonthlyTotalsFunc != nil {
		return m.MonthlyTotalsFunc(ctx, ownerID, from)
	}
	type key struct {
		year  int
		month time.Month
		kind  transaction.Kind
	}
	byMonth := make(map[key]int64)
	for _, t := range m.matching(ownerID, transaction.Window{Start: &from}, nil) {
		k := key{year: t.Date.Year(), month: t.Date.Month(), kind: t.Kind}
		byMonth[k] += t.AmountCents
	}
	totals := make([]transaction.MonthlyTotal, 0, len(byMonth))
	for k, cents := range byMonth {
		totals = append(totals, transaction.MonthlyTotal{
			Year:        k.year,
			Month:       k.month,
			Kind:        k.kind,
			AmountCents: cents,
		})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Year != totals[j].Year {
			return totals[i].Year < totals[j].Year
		}
		if totals[i].Month != totals[j].Month {
			return totals[i].Month < totals[j].Month
		}
		return totals[i].Kind < totals[j].Kind
	})
	return totals, nil
}

// matching returns copies of the owner's transactions inside the window
// that pass the extra predicate, in insertion order.
func (m *MockTransactionRepository) matching(ownerID uuid.UUID, w transaction.Window, pred func(*transaction.Transaction) bool) []*transaction.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*transaction.Transaction
	for _, id := range m.order {
		t := m.transactions[id]
		if t.OwnerID != ownerID {
			continue
		}
		if w.Start != nil && t.Date.Before(*w.Start) {
			continue
		}
		if w.End != nil && t.Date.After(*w.End) {
			continue
		}
		if pred != nil && !pred(t) {
			continue
		}
		copied := *t
		matched = append(matched, &copied)
	}
	return matched
}

// --- User Repository Mock ---

// MockUserRepository is an in-memory implementation of user.Repository.
type MockUserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User

	CreateFunc     func(ctx context.Context, u *user.User) error
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*user.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[uuid.UUID]*user.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return domainErrors.ErrEmailTaken
		}
	}
	copied := *u
	m.users[u.ID] = &copied
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domainErrors.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrUserNotFound
}

// --- Analytics Cache Mock ---

// MockAnalyticsCache is an in-memory cache recording invalidations.
type MockAnalyticsCache struct {
	mu            sync.Mutex
	entries       map[uuid.UUID]map[string][]byte
	Invalidations []uuid.UUID
}

func NewMockAnalyticsCache() *MockAnalyticsCache {
	return &MockAnalyticsCache{
		entries: make(map[uuid.UUID]map[string][]byte),
	}
}

func (m *MockAnalyticsCache) Get(ctx context.Context, ownerID uuid.UUID, view string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	views, ok := m.entries[ownerID]
	if !ok {
		return nil, false
	}
	payload, ok := views[view]
	return payload, ok
}

func (m *MockAnalyticsCache) Set(ctx context.Context, ownerID uuid.UUID, view string, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	views, ok := m.entries[ownerID]
	if !ok {
		views = make(map[string][]byte)
		m.entries[ownerID] = views
	}
	views[view] = payload
}

func (m *MockAnalyticsCache) Invalidate(ctx context.Context, ownerID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, ownerID)
	m.Invalidations = append(m.Invalidations, ownerID)
}
