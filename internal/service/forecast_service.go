package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/paisatrack/paisatrack/internal/forecast"
	"github.com/paisatrack/paisatrack/internal/models"
	"github.com/paisatrack/paisatrack/internal/storage"
)

// ForecastService answers read-only analytic requests over a user's
// transaction history. It fetches the relevant window from storage and
// hands the numbers to the pure functions in the forecast package.
type ForecastService struct {
	store storage.Store
	now   func() time.Time
}

// NewForecastService creates a ForecastService. A nil clock means wall
// time; tests inject a fixed clock.
func NewForecastService(store storage.Store, now func() time.Time) *ForecastService {
	if now == nil {
		now = time.Now
	}
	return &ForecastService{store: store, now: now}
}

// expensesSince fetches a user's expense transactions in [from, to].
func (s *ForecastService) expensesSince(ctx context.Context, userID string, category *string, from, to time.Time) ([]models.TransactionRecord, error) {
	typ := models.TypeExpense
	return s.store.ListTransactions(ctx, userID, storage.TransactionFilter{
		Category: category,
		Type:     &typ,
		From:     from,
		To:       to,
	})
}

// MonthEnd projects this month's total spending for the user, optionally
// narrowed to one category. A zero asOf means now. Months with no expenses
// yield a neutral zero-projection result, never an error.
func (s *ForecastService) MonthEnd(ctx context.Context, userID, category string, asOf time.Time) (*forecast.MonthEndForecast, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}

	var categoryFilter *string
	if category != "" {
		categoryFilter = &category
	}
	monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())
	txns, err := s.expensesSince(ctx, userID, categoryFilter, monthStart, asOf)
	if err != nil {
		slog.Error("MonthEnd: failed to list transactions", "user_id", userID, "error", err)
		return nil, err
	}

	budget, err := s.store.GetBudget(ctx, userID, category)
	if err != nil {
		slog.Error("MonthEnd: failed to get budget", "user_id", userID, "error", err)
		return nil, err
	}
	var limit float64
	hasBudget := budget != nil
	if hasBudget {
		limit = budget.MonthlyLimit
	}

	f := forecast.MonthEnd(txns, limit, hasBudget, asOf)
	return &f, nil
}

// Anomalies flags categories whose current-day spend exceeds their own
// lookback history by more than threshold standard deviations.
func (s *ForecastService) Anomalies(ctx context.Context, userID string, lookbackDays int, threshold float64, asOf time.Time) ([]forecast.Anomaly, error) {
	if lookbackDays <= 0 {
		return nil, validationf("lookback days must be positive, got %d", lookbackDays)
	}
	if threshold <= 0 {
		return nil, validationf("threshold must be positive, got %.2f", threshold)
	}
	if asOf.IsZero() {
		asOf = s.now()
	}

	from := asOf.AddDate(0, 0, -lookbackDays-1)
	txns, err := s.expensesSince(ctx, userID, nil, from, asOf)
	if err != nil {
		slog.Error("Anomalies: failed to list transactions", "user_id", userID, "error", err)
		return nil, err
	}
	return forecast.DetectAnomalies(txns, asOf, lookbackDays, threshold), nil
}

// WeeklyDigest compares the last seven days against the seven before that.
func (s *ForecastService) WeeklyDigest(ctx context.Context, userID string, asOf time.Time) (*forecast.WeeklyDigest, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}

	from := asOf.AddDate(0, 0, -14)
	txns, err := s.expensesSince(ctx, userID, nil, from, asOf)
	if err != nil {
		slog.Error("WeeklyDigest: failed to list transactions", "user_id", userID, "error", err)
		return nil, err
	}
	d := forecast.Digest(txns, asOf)
	return &d, nil
}

// CategoryForecasts extrapolates each category daysAhead days forward from
// its trailing 30-day daily average.
func (s *ForecastService) CategoryForecasts(ctx context.Context, userID string, daysAhead int, asOf time.Time) ([]forecast.CategoryProjection, error) {
	if daysAhead <= 0 {
		return nil, validationf("days ahead must be positive, got %d", daysAhead)
	}
	if asOf.IsZero() {
		asOf = s.now()
	}

	from := asOf.AddDate(0, 0, -31)
	txns, err := s.expensesSince(ctx, userID, nil, from, asOf)
	if err != nil {
		slog.Error("CategoryForecasts: failed to list transactions", "user_id", userID, "error", err)
		return nil, err
	}
	return forecast.CategoryForecasts(txns, asOf, daysAhead), nil
}
