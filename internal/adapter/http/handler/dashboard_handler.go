package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iho/fincontrol/internal/adapter/http/dto"
	"github.com/iho/fincontrol/internal/domain"
)

// DashboardService defines the behavior needed by DashboardHandler.
type DashboardService interface {
	GetBalance(ctx context.Context, ownerID string) (*domain.BalanceSnapshot, error)
	GetSummary(ctx context.Context, ownerID string, filter *domain.PeriodFilter) (*domain.PeriodSummary, error)
	GetExpensesByCategory(ctx context.Context, ownerID string, filter *domain.CategoryFilter) (*domain.CategoryBreakdown, error)
	GetBalanceEvolution(ctx context.Context, ownerID string, filter *domain.EvolutionFilter) (*domain.BalanceEvolution, error)
	GetRecentTransactions(ctx context.Context, ownerID string) (*domain.RecentActivity, error)
	GetIndicators(ctx context.Context, ownerID string) (*domain.HealthReport, error)
}

// DashboardHandler serves the read-only dashboard views.
type DashboardHandler struct {
	dashboardUC DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardUC DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardUC: dashboardUC}
}

// Balance returns the consolidated balance.
func (h *DashboardHandler) Balance(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.dashboardUC.GetBalance(r.Context(), ownerID(r))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(snapshot))
}

// Summary returns the period summary, the current month by default.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriodQuery(r)
	if err != nil {
		respondError(w, err)
		return
	}

	summary, err := h.dashboardUC.GetSummary(r.Context(), ownerID(r), period)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromDomain(summary))
}

// ExpensesByCategory returns the ranked expense breakdown.
func (h *DashboardHandler) ExpensesByCategory(w http.ResponseWriter, r *http.Request) {
	filter, err := categoryFilter(r)
	if err != nil {
		respondError(w, err)
		return
	}

	breakdown, err := h.dashboardUC.GetExpensesByCategory(r.Context(), ownerID(r), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoryBreakdownFromDomain(breakdown))
}

func categoryFilter(r *http.Request) (*domain.CategoryFilter, error) {
	period, err := parsePeriodQuery(r)
	if err != nil {
		return nil, err
	}
	limit, err := parseIntQuery(r, "limit", domain.DefaultCategoryLimit)
	if err != nil {
		return nil, err
	}
	if limit < domain.MinCategoryLimit || limit > domain.MaxCategoryLimit {
		return nil, fmt.Errorf("%w: limit must be between %d and %d",
			domain.ErrInvalidFilter, domain.MinCategoryLimit, domain.MaxCategoryLimit)
	}
	includeOthers, err := parseBoolQuery(r, "include_others", true)
	if err != nil {
		return nil, err
	}
	return &domain.CategoryFilter{Period: period, Limit: limit, IncludeOthers: includeOthers}, nil
}

// BalanceEvolution returns the balance series and its trend.
func (h *DashboardHandler) BalanceEvolution(w http.ResponseWriter, r *http.Request) {
	filter, err := evolutionFilter(r)
	if err != nil {
		respondError(w, err)
		return
	}

	evolution, err := h.dashboardUC.GetBalanceEvolution(r.Context(), ownerID(r), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EvolutionFromDomain(evolution))
}

func evolutionFilter(r *http.Request) (*domain.EvolutionFilter, error) {
	period, err := parsePeriodQuery(r)
	if err != nil {
		return nil, err
	}

	granularity := domain.GranularityMonthly
	if raw := r.URL.Query().Get("granularity"); raw != "" {
		granularity = domain.Granularity(raw)
		if !granularity.IsValid() {
			return nil, fmt.Errorf("%w: granularity must be daily, weekly or monthly", domain.ErrInvalidFilter)
		}
	}

	monthsBack, err := parseIntQuery(r, "months_back", domain.DefaultMonthsBack)
	if err != nil {
		return nil, err
	}
	if monthsBack < domain.MinMonthsBack || monthsBack > domain.MaxMonthsBack {
		return nil, fmt.Errorf("%w: months_back must be between %d and %d",
			domain.ErrInvalidFilter, domain.MinMonthsBack, domain.MaxMonthsBack)
	}

	return &domain.EvolutionFilter{Period: period, Granularity: granularity, MonthsBack: monthsBack}, nil
}

// RecentTransactions returns the latest transactions with display names.
func (h *DashboardHandler) RecentTransactions(w http.ResponseWriter, r *http.Request) {
	activity, err := h.dashboardUC.GetRecentTransactions(r.Context(), ownerID(r))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RecentActivityFromDomain(activity))
}

// Indicators returns the health score with indicators, alerts and
// suggestions.
func (h *DashboardHandler) Indicators(w http.ResponseWriter, r *http.Request) {
	report, err := h.dashboardUC.GetIndicators(r.Context(), ownerID(r))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.IndicatorsFromDomain(report))
}
