package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cassiomorais/fintrack/internal/domain/transaction"
	"github.com/cassiomorais/fintrack/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAnalyticsService() (*AnalyticsService, *testutil.MockTransactionRepository, *testutil.MockAnalyticsCache) {
	repo := testutil.NewMockTransactionRepository()
	cache := testutil.NewMockAnalyticsCache()
	svc := NewAnalyticsService(repo, cache, nil, 6)
	return svc, repo, cache
}

func pinNow(svc *AnalyticsService, at time.Time) {
	svc.now = func() time.Time { return at }
}

// --- Summarize Tests ---

func TestSummarize_EmptyLedger(t *testing.T) {
	svc, _, _ := setupAnalyticsService()

	summary, err := svc.Summarize(context.Background(), uuid.New(), transaction.Window{})
	require.NoError(t, err)
	assert.Equal(t, &Summary{}, summary)
}

func TestSummarize_GroupsByKind(t *testing.T) {
	svc, repo, _ := setupAnalyticsService()
	ownerID := uuid.New()
	date := time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC)

	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindIncome, transaction.CategorySalary, 100000, date))
	for i := 0; i < 3; i++ {
		repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindExpense, transaction.CategoryFood, 10000, date))
	}

	summary, err := svc.Summarize(context.Background(), ownerID, transaction.Window{})
	require.NoError(t, err)
	assert.Equal(t, int64(100000), summary.IncomeCents)
	assert.Equal(t, int64(30000), summary.ExpenseCents)
	assert.Equal(t, int64(70000), summary.BalanceCents)
	assert.Equal(t, 1, summary.IncomeCount)
	assert.Equal(t, 3, summary.ExpenseCount)
}

func TestSummarize_ExactCentsArithmetic(t *testing.T) {
	svc, repo, _ := setupAnalyticsService()
	ownerID := uuid.New()
	date := time.Now()

	// 100.10 - 40.05 must be exactly 60.05
	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindIncome, transaction.CategorySalary, 10010, date))
	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindExpense, transaction.CategoryFood, 4005, date))

	summary, err := svc.Summarize(context.Background(), ownerID, transaction.Window{})
	require.NoError(t, err)
	assert.Equal(t, int64(6005), summary.BalanceCents)
}

func TestSummarize_WindowFilters(t *testing.T) {
	svc, repo, _ := setupAnalyticsService()
	ownerID := uuid.New()

	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindExpense, transaction.CategoryFood, 100,
		time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC)))
	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindExpense, transaction.CategoryFood, 200,
		time.Date(2026, time.May, 15, 0, 0, 0, 0, time.UTC)))

	start := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	summary, err := svc.Summarize(context.Background(), ownerID, transaction.Window{Start: &start})
	require.NoError(t, err)
	assert.Equal(t, int64(200), summary.ExpenseCents)
	assert.Equal(t, 1, summary.ExpenseCount)
}

func TestSummarize_ServesFromCache(t *testing.T) {
	svc, repo, _ := setupAnalyticsService()
	ownerID := uuid.New()

	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindIncome, transaction.CategorySalary, 1000, time.Now()))

	first, err := svc.Summarize(context.Background(), ownerID, transaction.Window{})
	require.NoError(t, err)

	calls := 0
	repo.SumByKindFunc = func(ctx context.Context, ownerID uuid.UUID, w transaction.Window) ([]transaction.KindTotal, error) {
		calls++
		return nil, nil
	}

	second, err := svc.Summarize(context.Background(), ownerID, transaction.Window{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Zero(t, calls)
}

func TestSummarize_DistinctWindowsCachedSeparately(t *testing.T) {
	svc, repo, cache := setupAnalyticsService()
	ownerID := uuid.New()
	date := time.Date(2026, time.May, 15, 0, 0, 0, 0, time.UTC)

	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindExpense, transaction.CategoryFood, 100, date))

	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	all, err := svc.Summarize(context.Background(), ownerID, transaction.Window{})
	require.NoError(t, err)
	june, err := svc.Summarize(context.Background(), ownerID, transaction.Window{Start: &start})
	require.NoError(t, err)

	assert.Equal(t, int64(100), all.ExpenseCents)
	assert.Zero(t, june.ExpenseCents)

	_, allCached := cache.Get(context.Background(), ownerID, "summary:|")
	assert.True(t, allCached)
}

func TestSummarize_RepositoryError(t *testing.T) {
	svc, repo, _ := setupAnalyticsService()

	repo.SumByKindFunc = func(ctx context.Context, ownerID uuid.UUID, w transaction.Window) ([]transaction.KindTotal, error) {
		return nil, fmt.Errorf("connection refused")
	}

	_, err := svc.Summarize(context.Background(), uuid.New(), transaction.Window{})
	assert.Error(t, err)
}

// --- CategoryBreakdown Tests ---

func TestCategoryBreakdown_ExpensesOnly(t *testing.T) {
	svc, repo, _ := setupAnalyticsService()
	ownerID := uuid.New()
	date := time.Now()

	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindIncome, transaction.CategorySalary, 500000, date))
	for i := 0; i < 3; i++ {
		repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindExpense, transaction.CategoryFood, 10000, date))
	}
	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindExpense, transaction.CategoryTransport, 5000, date))

	breakdown, err := svc.CategoryBreakdown(context.Background(), ownerID, transaction.Window{})
	require.NoError(t, err)
	assert.Equal(t, []CategoryAmount{
		{Category: transaction.CategoryFood, AmountCents: 30000},
		{Category: transaction.CategoryTransport, AmountCents: 5000},
	}, breakdown)
}

func TestCategoryBreakdown_TiesOrderedByCategory(t *testing.T) {
	svc, repo, _ := setupAnalyticsService()
	ownerID := uuid.New()
	date := time.Now()

	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindExpense, transaction.CategoryTransport, 1000, date))
	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindExpense, transaction.CategoryFood, 1000, date))

	breakdown, err := svc.CategoryBreakdown(context.Background(), ownerID, transaction.Window{})
	require.NoError(t, err)
	require.Len(t, breakdown, 2)
	assert.Equal(t, transaction.CategoryFood, breakdown[0].Category)
	assert.Equal(t, transaction.CategoryTransport, breakdown[1].Category)
}

func TestCategoryBreakdown_Empty(t *testing.T) {
	svc, repo, _ := setupAnalyticsService()
	ownerID := uuid.New()

	// income alone produces an empty breakdown
	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindIncome, transaction.CategorySalary, 1000, time.Now()))

	breakdown, err := svc.CategoryBreakdown(context.Background(), ownerID, transaction.Window{})
	require.NoError(t, err)
	assert.Empty(t, breakdown)
}

// --- MonthlyTrend Tests ---

func TestMonthlyTrend_PivotsByMonth(t *testing.T) {
	svc, repo, _ := setupAnalyticsService()
	ownerID := uuid.New()
	pinNow(svc, time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC))

	june := time.Date(2026, time.June, 5, 0, 0, 0, 0, time.UTC)
	august := time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)

	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindIncome, transaction.CategorySalary, 500000, june))
	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindExpense, transaction.CategoryRent, 120000, june))
	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindExpense, transaction.CategoryFood, 30000, august))

	trend, err := svc.MonthlyTrend(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, []TrendRow{
		{Month: "Jun 2026", IncomeCents: 500000, ExpenseCents: 120000},
		{Month: "Aug 2026", ExpenseCents: 30000},
	}, trend)
}

func TestMonthlyTrend_ExcludesOlderMonths(t *testing.T) {
	svc, repo, _ := setupAnalyticsService()
	ownerID := uuid.New()
	pinNow(svc, time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC))

	// window covers March through August; February is out
	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindExpense, transaction.CategoryFood, 100,
		time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC)))
	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindExpense, transaction.CategoryFood, 200,
		time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)))

	trend, err := svc.MonthlyTrend(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, trend, 1)
	assert.Equal(t, "Mar 2026", trend[0].Month)
}

func TestMonthlyTrend_WindowCrossesYearBoundary(t *testing.T) {
	svc, repo, _ := setupAnalyticsService()
	ownerID := uuid.New()
	pinNow(svc, time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC))

	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindExpense, transaction.CategoryFood, 100,
		time.Date(2025, time.September, 15, 0, 0, 0, 0, time.UTC)))
	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindExpense, transaction.CategoryFood, 200,
		time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)))

	trend, err := svc.MonthlyTrend(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, trend, 2)
	assert.Equal(t, "Sep 2025", trend[0].Month)
	assert.Equal(t, "Jan 2026", trend[1].Month)
}

func TestMonthlyTrend_EmptyLedger(t *testing.T) {
	svc, _, _ := setupAnalyticsService()

	trend, err := svc.MonthlyTrend(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, trend)
}

// --- Overview Tests ---

func TestOverview_DerivesStatistics(t *testing.T) {
	svc, repo, _ := setupAnalyticsService()
	ownerID := uuid.New()
	pinNow(svc, time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC))

	july := time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)
	august := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)

	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindIncome, transaction.CategorySalary, 100000, july))
	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindExpense, transaction.CategoryFood, 40000, july))
	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindIncome, transaction.CategorySalary, 150000, august))
	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindExpense, transaction.CategoryFood, 20000, august))
	repo.Add(testutil.NewTestTransaction(ownerID, transaction.KindExpense, transaction.CategoryRent, 70000, august))

	overview, err := svc.Overview(context.Background(), ownerID, transaction.Window{})
	require.NoError(t, err)

	assert.Equal(t, int64(250000), overview.Summary.IncomeCents)
	assert.Equal(t, int64(130000), overview.Summary.ExpenseCents)
	assert.Equal(t, transaction.CategoryRent, overview.TopCategory)
	// (2500 - 1300) / 2500 = 48%
	assert.Equal(t, 48.0, overview.SavingsRate)
	// august vs july: income 1500 vs 1000, expense 900 vs 400
	assert.Equal(t, 50.0, overview.IncomeChange)
	assert.Equal(t, 125.0, overview.ExpenseChange)
	require.Len(t, overview.Trend, 2)
	assert.Equal(t, "Jul 2026", overview.Trend[0].Month)
}

func TestOverview_EmptyLedger(t *testing.T) {
	svc, _, _ := setupAnalyticsService()
	pinNow(svc, time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC))

	overview, err := svc.Overview(context.Background(), uuid.New(), transaction.Window{})
	require.NoError(t, err)
	assert.Equal(t, transaction.Category(""), overview.TopCategory)
	assert.Zero(t, overview.SavingsRate)
	assert.Zero(t, overview.IncomeChange)
	assert.Zero(t, overview.ExpenseChange)
	assert.Empty(t, overview.Breakdown)
	assert.Empty(t, overview.Trend)
}

func TestOverview_FailsWhenAnyQueryFails(t *testing.T) {
	svc, repo, _ := setupAnalyticsService()
	pinNow(svc, time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC))

	repo.MonthlyTotalsFunc = func(ctx context.Context, ownerID uuid.UUID, from time.Time) ([]transaction.MonthlyTotal, error) {
		return nil, fmt.Errorf("connection refused")
	}

	_, err := svc.Overview(context.Background(), uuid.New(), transaction.Window{})
	assert.Error(t, err)
}

// --- Derived Statistic Tests ---

func TestTopCategory(t *testing.T) {
	tests := []struct {
		name      string
		breakdown []CategoryAmount
		expected  transaction.Category
	}{
		{
			name:      "empty breakdown",
			breakdown: nil,
			expected:  transaction.Category(""),
		},
		{
			name: "single category",
			breakdown: []CategoryAmount{
				{Category: transaction.CategoryFood, AmountCents: 100},
			},
			expected: transaction.CategoryFood,
		},
		{
			name: "largest wins",
			breakdown: []CategoryAmount{
				{Category: transaction.CategoryFood, AmountCents: 100},
				{Category: transaction.CategoryRent, AmountCents: 900},
			},
			expected: transaction.CategoryRent,
		},
		{
			name: "tie keeps the first",
			breakdown: []CategoryAmount{
				{Category: transaction.CategoryFood, AmountCents: 500},
				{Category: transaction.CategoryRent, AmountCents: 500},
			},
			expected: transaction.CategoryFood,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TopCategory(tt.breakdown))
		})
	}
}

func TestSavingsRate(t *testing.T) {
	tests := []struct {
		name     string
		summary  *Summary
		expected float64
	}{
		{
			name:     "nil summary",
			summary:  nil,
			expected: 0,
		},
		{
			name:     "no income",
			summary:  &Summary{IncomeCents: 0, ExpenseCents: 5000},
			expected: 0,
		},
		{
			name:     "quarter saved",
			summary:  &Summary{IncomeCents: 20000, ExpenseCents: 15000},
			expected: 25.0,
		},
		{
			name:     "overspending clamps to zero",
			summary:  &Summary{IncomeCents: 10000, ExpenseCents: 15000},
			expected: 0,
		},
		{
			name:     "rounded to one decimal",
			summary:  &Summary{IncomeCents: 30000, ExpenseCents: 10000},
			expected: 66.7,
		},
		{
			name:     "everything saved",
			summary:  &Summary{IncomeCents: 10000, ExpenseCents: 0},
			expected: 100.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SavingsRate(tt.summary))
		})
	}
}

func TestPeriodChange(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		previous int64
		expected float64
	}{
		{name: "no previous activity", current: 1000, previous: 0, expected: 0},
		{name: "negative previous", current: 1000, previous: -1, expected: 0},
		{name: "increase", current: 15000, previous: 10000, expected: 50.0},
		{name: "decrease", current: 5000, previous: 10000, expected: -50.0},
		{name: "flat", current: 10000, previous: 10000, expected: 0},
		{name: "rounded to one decimal", current: 10000, previous: 30000, expected: -66.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PeriodChange(tt.current, tt.previous))
		})
	}
}
