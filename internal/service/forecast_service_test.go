package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/paisatrack/paisatrack/internal/forecast"
	"github.com/paisatrack/paisatrack/internal/models"
)

func TestForecastServiceMonthEnd(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	txns := NewTransactionService(store)

	asOf := time.Date(2026, time.June, 16, 12, 0, 0, 0, time.UTC)
	svc := NewForecastService(store, func() time.Time { return asOf })

	// 310 per day for the first 16 days of June.
	for d := 1; d <= 16; d++ {
		at := time.Date(2026, time.June, d, 9, 0, 0, 0, time.UTC)
		if _, err := txns.Record(ctx, "asha", 310.0, "food", models.TypeExpense, at); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	// Income and other users never count.
	if _, err := txns.Record(ctx, "asha", 90000.0, "salary", models.TypeIncome, asOf); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := txns.Record(ctx, "ravi", 9999.0, "food", models.TypeExpense, asOf); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	t.Run("without budget", func(t *testing.T) {
		f, err := svc.MonthEnd(ctx, "asha", "", time.Time{})
		if err != nil {
			t.Fatalf("MonthEnd failed: %v", err)
		}
		if math.Abs(f.CurrentSpending-4960.0) > 0.001 {
			t.Errorf("CurrentSpending = %v, want 4960", f.CurrentSpending)
		}
		if math.Abs(f.ProjectedTotal-9300.0) > 0.001 {
			t.Errorf("ProjectedTotal = %v, want 9300", f.ProjectedTotal)
		}
		if f.Tier != forecast.TierNoBudget {
			t.Errorf("Tier = %v, want %v", f.Tier, forecast.TierNoBudget)
		}
	})

	t.Run("with budget", func(t *testing.T) {
		if err := txns.SetBudget(ctx, "asha", "", 8000.0); err != nil {
			t.Fatalf("SetBudget failed: %v", err)
		}

		f, err := svc.MonthEnd(ctx, "asha", "", time.Time{})
		if err != nil {
			t.Fatalf("MonthEnd failed: %v", err)
		}
		if f.Tier != forecast.TierWarning {
			t.Errorf("Tier = %v, want %v", f.Tier, forecast.TierWarning)
		}
		if math.Abs(f.OverBudgetBy-1300.0) > 0.001 {
			t.Errorf("OverBudgetBy = %v, want 1300", f.OverBudgetBy)
		}
	})

	t.Run("category narrows both spend and budget", func(t *testing.T) {
		f, err := svc.MonthEnd(ctx, "asha", "travel", time.Time{})
		if err != nil {
			t.Fatalf("MonthEnd failed: %v", err)
		}
		if f.Tier != forecast.TierNoData {
			t.Errorf("Tier = %v, want %v for a silent category", f.Tier, forecast.TierNoData)
		}
		if f.HasBudget {
			t.Error("HasBudget = true, want false: overall budget must not leak into category view")
		}
	})
}

func TestForecastServiceAnomalies(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	txns := NewTransactionService(store)

	asOf := time.Date(2026, time.June, 29, 18, 0, 0, 0, time.UTC)
	svc := NewForecastService(store, func() time.Time { return asOf })

	// Baseline: alternating 80/120 dining days, mean 100 stddev 20.
	for i := 1; i <= 14; i++ {
		amount := 80.0
		if i%2 == 0 {
			amount = 120.0
		}
		if _, err := txns.Record(ctx, "asha", amount, "dining", models.TypeExpense, asOf.AddDate(0, 0, -i)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	// Today: well past 2 sigmas.
	if _, err := txns.Record(ctx, "asha", 200.0, "dining", models.TypeExpense, asOf); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	anomalies, err := svc.Anomalies(ctx, "asha", 14, 2.0, time.Time{})
	if err != nil {
		t.Fatalf("Anomalies failed: %v", err)
	}
	if len(anomalies) != 1 || anomalies[0].Category != "dining" {
		t.Fatalf("anomalies = %v, want the dining spike", anomalies)
	}
	if math.Abs(anomalies[0].AverageSpending-100.0) > 0.001 {
		t.Errorf("AverageSpending = %v, want 100", anomalies[0].AverageSpending)
	}

	if _, err := svc.Anomalies(ctx, "asha", 0, 2.0, time.Time{}); !errors.Is(err, ErrValidation) {
		t.Errorf("zero lookback error = %v, want ErrValidation", err)
	}
	if _, err := svc.Anomalies(ctx, "asha", 14, -1.0, time.Time{}); !errors.Is(err, ErrValidation) {
		t.Errorf("negative threshold error = %v, want ErrValidation", err)
	}
}

func TestForecastServiceWeeklyDigest(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	txns := NewTransactionService(store)

	asOf := time.Date(2026, time.June, 20, 12, 0, 0, 0, time.UTC)
	svc := NewForecastService(store, func() time.Time { return asOf })

	records := []struct {
		amount   float64
		category string
		daysAgo  int
	}{
		{500.0, "dining", 10}, // previous week
		{300.0, "travel", 8},  // previous week
		{400.0, "dining", 5},
		{300.0, "dining", 2},
		{300.0, "travel", 0},
	}
	for _, r := range records {
		if _, err := txns.Record(ctx, "asha", r.amount, r.category, models.TypeExpense, asOf.AddDate(0, 0, -r.daysAgo)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	d, err := svc.WeeklyDigest(ctx, "asha", time.Time{})
	if err != nil {
		t.Fatalf("WeeklyDigest failed: %v", err)
	}
	if math.Abs(d.WeekTotal-1000.0) > 0.001 || math.Abs(d.PreviousWeekTotal-800.0) > 0.001 {
		t.Errorf("totals = %v/%v, want 1000/800", d.WeekTotal, d.PreviousWeekTotal)
	}
	if d.ChangePercent == nil || math.Abs(*d.ChangePercent-25.0) > 0.001 {
		t.Errorf("ChangePercent = %v, want 25", d.ChangePercent)
	}
	if len(d.TopCategories) == 0 || d.TopCategories[0].Category != "dining" {
		t.Errorf("TopCategories = %v, want dining first", d.TopCategories)
	}
}

func TestForecastServiceCategoryForecasts(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	txns := NewTransactionService(store)

	asOf := time.Date(2026, time.June, 30, 12, 0, 0, 0, time.UTC)
	svc := NewForecastService(store, func() time.Time { return asOf })

	if _, err := txns.Record(ctx, "asha", 1500.0, "dining", models.TypeExpense, asOf.AddDate(0, 0, -25)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := txns.Record(ctx, "asha", 1500.0, "dining", models.TypeExpense, asOf.AddDate(0, 0, -5)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	projections, err := svc.CategoryForecasts(ctx, "asha", 30, time.Time{})
	if err != nil {
		t.Fatalf("CategoryForecasts failed: %v", err)
	}
	if len(projections) != 1 {
		t.Fatalf("got %d projections, want 1: %v", len(projections), projections)
	}
	if math.Abs(projections[0].ProjectedAmount-3000.0) > 0.001 {
		t.Errorf("ProjectedAmount = %v, want 3000", projections[0].ProjectedAmount)
	}
	if math.Abs(projections[0].Confidence-0.5) > 0.001 {
		t.Errorf("Confidence = %v, want 0.5", projections[0].Confidence)
	}

	if _, err := svc.CategoryForecasts(ctx, "asha", 0, time.Time{}); !errors.Is(err, ErrValidation) {
		t.Errorf("zero horizon error = %v, want ErrValidation", err)
	}
}
