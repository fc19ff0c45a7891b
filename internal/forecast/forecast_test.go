package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/paisatrack/paisatrack/internal/models"
)

func expense(category string, amount float64, at time.Time) models.TransactionRecord {
	return models.TransactionRecord{
		UserID:     "user-1",
		Amount:     amount,
		Category:   category,
		Type:       models.TypeExpense,
		OccurredAt: at,
	}
}

func income(amount float64, at time.Time) models.TransactionRecord {
	return models.TransactionRecord{
		UserID:     "user-1",
		Amount:     amount,
		Type:       models.TypeIncome,
		OccurredAt: at,
	}
}

// day returns noon on the nth day of June 2026, a 30-day month.
func day(n int) time.Time {
	return time.Date(2026, time.June, n, 12, 0, 0, 0, time.UTC)
}

func TestMonthEnd(t *testing.T) {
	asOf := day(16) // 16 days elapsed, 14 remaining

	steady := func(perDay float64) []models.TransactionRecord {
		var txns []models.TransactionRecord
		for d := 1; d <= 16; d++ {
			txns = append(txns, expense("food", perDay, day(d)))
		}
		return txns
	}

	tests := []struct {
		name         string
		txns         []models.TransactionRecord
		budgetLimit  float64
		hasBudget    bool
		validateFunc func(t *testing.T, f MonthEndForecast)
	}{
		{
			name:        "steady spending projects over budget",
			txns:        steady(310.0),
			budgetLimit: 8000.0,
			hasBudget:   true,
			validateFunc: func(t *testing.T, f MonthEndForecast) {
				// Constant spend: weighted average equals the flat rate.
				if math.Abs(f.DailyAverage-310.0) > 0.001 {
					t.Errorf("DailyAverage = %v, want 310", f.DailyAverage)
				}
				if math.Abs(f.CurrentSpending-4960.0) > 0.001 {
					t.Errorf("CurrentSpending = %v, want 4960", f.CurrentSpending)
				}
				// 4960 + 310*14 = 9300
				if math.Abs(f.ProjectedTotal-9300.0) > 0.001 {
					t.Errorf("ProjectedTotal = %v, want 9300", f.ProjectedTotal)
				}
				if f.Tier != TierWarning {
					t.Errorf("Tier = %v, want %v", f.Tier, TierWarning)
				}
				if math.Abs(f.OverBudgetBy-1300.0) > 0.001 {
					t.Errorf("OverBudgetBy = %v, want 1300", f.OverBudgetBy)
				}
				// 0.2 + 0.75 * 16/30 = 0.6
				if math.Abs(f.ConfidenceLevel-0.6) > 0.001 {
					t.Errorf("ConfidenceLevel = %v, want 0.6", f.ConfidenceLevel)
				}
				if f.DaysElapsed != 16 || f.DaysRemaining != 14 {
					t.Errorf("days = %d/%d, want 16/14", f.DaysElapsed, f.DaysRemaining)
				}
			},
		},
		{
			name:        "projection close to budget is a caution",
			txns:        steady(300.0),
			budgetLimit: 9500.0,
			hasBudget:   true,
			validateFunc: func(t *testing.T, f MonthEndForecast) {
				// 4800 + 300*14 = 9000, within 10% of 9500.
				if math.Abs(f.ProjectedTotal-9000.0) > 0.001 {
					t.Errorf("ProjectedTotal = %v, want 9000", f.ProjectedTotal)
				}
				if f.Tier != TierCaution {
					t.Errorf("Tier = %v, want %v", f.Tier, TierCaution)
				}
				if f.OverBudgetBy != 0 {
					t.Errorf("OverBudgetBy = %v, want 0", f.OverBudgetBy)
				}
			},
		},
		{
			name:        "comfortable budget is on track",
			txns:        steady(300.0),
			budgetLimit: 20000.0,
			hasBudget:   true,
			validateFunc: func(t *testing.T, f MonthEndForecast) {
				if f.Tier != TierOnTrack {
					t.Errorf("Tier = %v, want %v", f.Tier, TierOnTrack)
				}
			},
		},
		{
			name:      "no budget configured",
			txns:      steady(300.0),
			hasBudget: false,
			validateFunc: func(t *testing.T, f MonthEndForecast) {
				if f.Tier != TierNoBudget {
					t.Errorf("Tier = %v, want %v", f.Tier, TierNoBudget)
				}
				if f.HasBudget {
					t.Error("HasBudget = true, want false")
				}
				if math.Abs(f.ProjectedTotal-9000.0) > 0.001 {
					t.Errorf("ProjectedTotal = %v, want 9000", f.ProjectedTotal)
				}
			},
		},
		{
			name:        "no expenses yields floor confidence",
			txns:        []models.TransactionRecord{income(50000.0, day(1))},
			budgetLimit: 8000.0,
			hasBudget:   true,
			validateFunc: func(t *testing.T, f MonthEndForecast) {
				if f.Tier != TierNoData {
					t.Errorf("Tier = %v, want %v", f.Tier, TierNoData)
				}
				if f.ProjectedTotal != 0 || f.CurrentSpending != 0 {
					t.Errorf("projection = %v/%v, want zeros", f.ProjectedTotal, f.CurrentSpending)
				}
				if f.ConfidenceLevel != 0.2 {
					t.Errorf("ConfidenceLevel = %v, want 0.2", f.ConfidenceLevel)
				}
			},
		},
		{
			name: "income never counts toward spending",
			txns: append(steady(300.0), income(100000.0, day(10))),
			validateFunc: func(t *testing.T, f MonthEndForecast) {
				if math.Abs(f.CurrentSpending-4800.0) > 0.001 {
					t.Errorf("CurrentSpending = %v, want 4800", f.CurrentSpending)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validateFunc(t, MonthEnd(tt.txns, tt.budgetLimit, tt.hasBudget, asOf))
		})
	}
}

// TestMonthEndRecencyWeighting verifies that later days pull the daily
// average harder than earlier ones.
func TestMonthEndRecencyWeighting(t *testing.T) {
	asOf := day(10)

	// spend on day d is 10*d: rising through the window.
	var txns []models.TransactionRecord
	for d := 1; d <= 10; d++ {
		txns = append(txns, expense("food", float64(10*d), day(d)))
	}

	f := MonthEnd(txns, 0, false, asOf)

	// weighted = sum(10i * i) / sum(i) = 10*385/55 = 70; flat mean is 55.
	if math.Abs(f.DailyAverage-70.0) > 0.001 {
		t.Errorf("DailyAverage = %v, want 70 (recency-weighted)", f.DailyAverage)
	}
	if math.Abs(f.ProjectedTotal-(550.0+70.0*20)) > 0.001 {
		t.Errorf("ProjectedTotal = %v, want 1950", f.ProjectedTotal)
	}
}
