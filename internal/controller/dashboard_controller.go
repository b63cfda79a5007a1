package controller

import (
	"net/http"

	domainErrors "github.com/cassiomorais/fintrack/internal/domain/errors"
	"github.com/cassiomorais/fintrack/internal/middleware"
	"github.com/cassiomorais/fintrack/internal/service"
)

type DashboardController struct {
	analyticsService *service.AnalyticsService
}

func NewDashboardController(analyticsService *service.AnalyticsService) *DashboardController {
	return &DashboardController{analyticsService: analyticsService}
}

func (h *DashboardController) CategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	window, err := parseWindow(r)
	if err != nil {
		writeError(w, err)
		return
	}

	breakdown, err := h.analyticsService.CategoryBreakdown(r.Context(), ownerID, window)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BreakdownResponse{Breakdown: FromBreakdown(breakdown)})
}

// MonthlyTrend serves the fixed recent-months view. It deliberately
// accepts no date filters.
func (h *DashboardController) MonthlyTrend(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	trend, err := h.analyticsService.MonthlyTrend(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TrendResponse{Trend: FromTrend(trend)})
}

func (h *DashboardController) Overview(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	window, err := parseWindow(r)
	if err != nil {
		writeError(w, err)
		return
	}

	overview, err := h.analyticsService.Overview(r.Context(), ownerID, window)
	if err != nil {
		writeError(w, err)
		return
	}

	topCategory := string(overview.TopCategory)
	if topCategory == "" {
		topCategory = "none"
	}

	writeJSON(w, http.StatusOK, OverviewResponse{
		Summary:   FromSummary(overview.Summary),
		Breakdown: FromBreakdown(overview.Breakdown),
		Trend:     FromTrend(overview.Trend),
		Stats: OverviewStatsResponse{
			TopCategory:   topCategory,
			SavingsRate:   overview.SavingsRate,
			IncomeChange:  overview.IncomeChange,
			ExpenseChange: overview.ExpenseChange,
		},
	})
}
