package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/cassiomorais/fintrack/internal/domain/transaction"
	"github.com/cassiomorais/fintrack/internal/infrastructure/observability"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// AnalyticsService computes derived dashboard views from the ledger.
// It is read-only: every method runs grouping queries against the
// store and never mutates state.
type AnalyticsService struct {
	repo        transaction.Repository
	cache       AnalyticsCache
	metrics     *observability.Metrics
	trendMonths int

	// now is swappable in tests to pin the trend window.
	now func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService. cache and metrics
// may be nil.
func NewAnalyticsService(repo transaction.Repository, cache AnalyticsCache, metrics *observability.Metrics, trendMonths int) *AnalyticsService {
	if trendMonths <= 0 {
		trendMonths = 6
	}
	return &AnalyticsService{
		repo:        repo,
		cache:       cache,
		metrics:     metrics,
		trendMonths: trendMonths,
		now:         time.Now,
	}
}

// Summarize groups the owner's transactions in the window by kind.
// Kinds with no matching records report zero totals and counts.
func (s *AnalyticsService) Summarize(ctx context.Context, ownerID uuid.UUID, w transaction.Window) (*Summary, error) {
	view := "summary:" + windowKey(w)
	if cached, ok := s.cacheGet(ctx, ownerID, view, "summary"); ok {
		var summary Summary
		if err := json.Unmarshal(cached, &summary); err == nil {
			return &summary, nil
		}
	}

	start := s.now()
	totals, err := s.repo.SumByKind(ctx, ownerID, w)
	if err != nil {
		return nil, err
	}
	s.observeQuery("summary", start)

	summary := &Summary{}
	for _, t := range totals {
		switch t.Kind {
		case transaction.KindIncome:
			summary.IncomeCents = t.AmountCents
			summary.IncomeCount = t.Count
		case transaction.KindExpense:
			summary.ExpenseCents = t.AmountCents
			summary.ExpenseCount = t.Count
		}
	}
	summary.BalanceCents = summary.IncomeCents - summary.ExpenseCents

	s.cacheSet(ctx, ownerID, view, summary)
	return summary, nil
}

// CategoryBreakdown groups the owner's expense transactions in the
// window by category. Income is never included; categories without
// matching records are omitted.
func (s *AnalyticsService) CategoryBreakdown(ctx context.Context, ownerID uuid.UUID, w transaction.Window) ([]CategoryAmount, error) {
	view := "breakdown:" + windowKey(w)
	if cached, ok := s.cacheGet(ctx, ownerID, view, "breakdown"); ok {
		var breakdown []CategoryAmount
		if err := json.Unmarshal(cached, &breakdown); err == nil {
			return breakdown, nil
		}
	}

	start := s.now()
	totals, err := s.repo.SumExpensesByCategory(ctx, ownerID, w)
	if err != nil {
		return nil, err
	}
	s.observeQuery("breakdown", start)

	breakdown := make([]CategoryAmount, 0, len(totals))
	for _, t := range totals {
		breakdown = append(breakdown, CategoryAmount{
			Category:    t.Category,
			AmountCents: t.AmountCents,
		})
	}

	s.cacheSet(ctx, ownerID, view, breakdown)
	return breakdown, nil
}

// MonthlyTrend returns per-month income/expense totals for the most
// recent calendar months ending with the current month. The window is
// fixed; callers cannot filter it. Months without any transactions are
// not synthesized.
func (s *AnalyticsService) MonthlyTrend(ctx context.Context, ownerID uuid.UUID) ([]TrendRow, error) {
	from := s.trendStart()

	start := s.now()
	totals, err := s.repo.MonthlyTotals(ctx, ownerID, from)
	if err != nil {
		return nil, err
	}
	s.observeQuery("trend", start)

	rows := make([]TrendRow, 0, s.trendMonths)
	index := make(map[string]int)
	for _, t := range totals {
		label := time.Date(t.Year, t.Month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
		i, ok := index[label]
		if !ok {
			i = len(rows)
			index[label] = i
			rows = append(rows, TrendRow{Month: label})
		}
		switch t.Kind {
		case transaction.KindIncome:
			rows[i].IncomeCents = t.AmountCents
		case transaction.KindExpense:
			rows[i].ExpenseCents = t.AmountCents
		}
	}
	return rows, nil
}

// Overview fetches summary, breakdown and trend concurrently and
// derives the headline statistics, including the change of the current
// month against the previous one.
func (s *AnalyticsService) Overview(ctx context.Context, ownerID uuid.UUID, w transaction.Window) (*Overview, error) {
	var (
		summary   *Summary
		breakdown []CategoryAmount
		trend     []TrendRow
		current   *Summary
		previous  *Summary
	)

	curWindow, prevWindow := s.comparisonWindows()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.Summarize(gctx, ownerID, w)
		return err
	})
	g.Go(func() error {
		var err error
		breakdown, err = s.CategoryBreakdown(gctx, ownerID, w)
		return err
	})
	g.Go(func() error {
		var err error
		trend, err = s.MonthlyTrend(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		current, err = s.Summarize(gctx, ownerID, curWindow)
		if err != nil {
			return err
		}
		previous, err = s.Summarize(gctx, ownerID, prevWindow)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Overview{
		Summary:       summary,
		Breakdown:     breakdown,
		Trend:         trend,
		TopCategory:   TopCategory(breakdown),
		SavingsRate:   SavingsRate(summary),
		IncomeChange:  PeriodChange(current.IncomeCents, previous.IncomeCents),
		ExpenseChange: PeriodChange(current.ExpenseCents, previous.ExpenseCents),
	}, nil
}

// TopCategory returns the category carrying the largest amount, with
// ties broken by input order. Empty input yields the empty category.
func TopCategory(breakdown []CategoryAmount) transaction.Category {
	var (
		top transaction.Category
		max int64
	)
	for i, row := range breakdown {
		if i == 0 || row.AmountCents > max {
			top = row.Category
			max = row.AmountCents
		}
	}
	return top
}

// SavingsRate returns (income-expense)/income as a percentage rounded
// to one decimal place, clamped to zero when negative or when there is
// no income.
func SavingsRate(s *Summary) float64 {
	if s == nil || s.IncomeCents <= 0 {
		return 0
	}
	rate := float64(s.IncomeCents-s.ExpenseCents) / float64(s.IncomeCents) * 100
	if rate < 0 {
		return 0
	}
	return math.Round(rate*10) / 10
}

// PeriodChange returns the percentage change from previous to current,
// rounded to one decimal place. Defined as zero when previous is not
// positive.
func PeriodChange(current, previous int64) float64 {
	if previous <= 0 {
		return 0
	}
	change := float64(current-previous) / float64(previous) * 100
	return math.Round(change*10) / 10
}

// trendStart returns the first instant of the oldest month in the
// trend window.
func (s *AnalyticsService) trendStart() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month()-time.Month(s.trendMonths-1), 1, 0, 0, 0, 0, now.Location())
}

// comparisonWindows returns the current and previous calendar month as
// inclusive windows.
func (s *AnalyticsService) comparisonWindows() (transaction.Window, transaction.Window) {
	now := s.now()
	curStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevStart := curStart.AddDate(0, -1, 0)
	prevEnd := curStart.Add(-time.Nanosecond)
	curEnd := curStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	cur := transaction.Window{Start: &curStart, End: &curEnd}
	prev := transaction.Window{Start: &prevStart, End: &prevEnd}
	return cur, prev
}

func windowKey(w transaction.Window) string {
	start, end := "", ""
	if w.Start != nil {
		start = w.Start.UTC().Format(time.RFC3339)
	}
	if w.End != nil {
		end = w.End.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("%s|%s", start, end)
}

func (s *AnalyticsService) cacheGet(ctx context.Context, ownerID uuid.UUID, view, label string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	payload, ok := s.cache.Get(ctx, ownerID, view)
	if s.metrics != nil {
		result := "miss"
		if ok {
			result = "hit"
		}
		s.metrics.AnalyticsCacheRequests.WithLabelValues(label, result).Inc()
	}
	return payload, ok
}

func (s *AnalyticsService) cacheSet(ctx context.Context, ownerID uuid.UUID, view string, v any) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.cache.Set(ctx, ownerID, view, payload)
}

func (s *AnalyticsService) observeQuery(view string, start time.Time) {
	if s.metrics != nil {
		s.metrics.AnalyticsQueryDuration.WithLabelValues(view).Observe(s.now().Sub(start).Seconds())
	}
}
