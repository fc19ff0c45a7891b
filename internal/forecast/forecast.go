// Package forecast projects month-end spending, detects category-level
// anomalies, and produces week-over-week digests from a user's transaction
// history.
//
// Every function here is pure: it takes the relevant transaction window and
// an explicit reference time, and never touches storage or the wall clock.
// The service layer owns fetching transactions and injecting "now", which
// keeps these computations trivially testable.
package forecast

import (
	"fmt"
	"time"

	"github.com/paisatrack/paisatrack/internal/models"
)

// Recommendation tiers for the month-end forecast.
const (
	TierNoData   = "no_data"
	TierNoBudget = "no_budget"
	TierOnTrack  = "on_track"
	TierCaution  = "caution"
	TierWarning  = "warning"
)

// MonthEndForecast is the projected month-end position for one user,
// optionally narrowed to a category.
type MonthEndForecast struct {
	ProjectedTotal  float64
	CurrentSpending float64
	DaysElapsed     int
	DaysRemaining   int
	DailyAverage    float64
	BudgetLimit     float64
	HasBudget       bool
	OverBudgetBy    float64
	ConfidenceLevel float64
	Tier            string
	Recommendation  string
}

// Confidence bounds: the floor applies with no data, the ceiling keeps the
// score honest even on the last day of the month.
const (
	confidenceFloor   = 0.2
	confidenceCeiling = 0.95
)

// MonthEnd projects total spending for the month containing asOf.
//
// The daily average is recency-weighted: day i of the elapsed window gets
// weight i, so the most recent day counts most. A month with no expenses
// yet yields a zero projection at floor confidence, not an error.
func MonthEnd(txns []models.TransactionRecord, budgetLimit float64, hasBudget bool, asOf time.Time) MonthEndForecast {
	daysInMonth := time.Date(asOf.Year(), asOf.Month()+1, 0, 0, 0, 0, 0, asOf.Location()).Day()
	daysElapsed := asOf.Day()
	daysRemaining := daysInMonth - daysElapsed

	monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())
	daily := make([]float64, daysElapsed)
	var current float64
	var observed int
	for _, t := range txns {
		if t.Type != models.TypeExpense {
			continue
		}
		day := dayIndex(monthStart, t.OccurredAt)
		if day < 0 || day >= daysElapsed {
			continue
		}
		daily[day] += t.Amount
		current += t.Amount
		observed++
	}

	f := MonthEndForecast{
		CurrentSpending: current,
		DaysElapsed:     daysElapsed,
		DaysRemaining:   daysRemaining,
		BudgetLimit:     budgetLimit,
		HasBudget:       hasBudget,
	}

	if observed == 0 {
		f.ConfidenceLevel = confidenceFloor
		f.Tier = TierNoData
		f.Recommendation = "No expenses recorded this month yet."
		return f
	}

	// weighted_avg = sum(spend_i * i) / sum(i), weights rising with recency.
	var weightedSum, weightTotal float64
	for i, spend := range daily {
		w := float64(i + 1)
		weightedSum += spend * w
		weightTotal += w
	}
	f.DailyAverage = weightedSum / weightTotal
	f.ProjectedTotal = current + f.DailyAverage*float64(daysRemaining)
	f.ConfidenceLevel = confidence(daysElapsed, daysInMonth)

	if !hasBudget {
		f.Tier = TierNoBudget
		f.Recommendation = "No budget configured; projection is informational only."
		return f
	}

	switch {
	case f.ProjectedTotal > budgetLimit:
		f.OverBudgetBy = f.ProjectedTotal - budgetLimit
		f.Tier = TierWarning
		f.Recommendation = fmt.Sprintf(
			"At the current pace you will overshoot your ₹%.2f budget by ₹%.2f.",
			budgetLimit, f.OverBudgetBy)
	case f.ProjectedTotal >= 0.9*budgetLimit:
		f.Tier = TierCaution
		f.Recommendation = fmt.Sprintf(
			"Projected spending of ₹%.2f is within 10%% of your ₹%.2f budget.",
			f.ProjectedTotal, budgetLimit)
	default:
		f.Tier = TierOnTrack
		f.Recommendation = "Spending is on track against your budget."
	}
	return f
}

// confidence grows with the observed fraction of the month. It depends only
// on elapsed days, never on spend magnitude.
func confidence(daysElapsed, daysInMonth int) float64 {
	c := confidenceFloor + (confidenceCeiling-confidenceFloor)*float64(daysElapsed)/float64(daysInMonth)
	if c > confidenceCeiling {
		c = confidenceCeiling
	}
	return c
}

// dayIndex returns the number of whole calendar days from the day containing
// from to the day containing t, in from's location. Negative when t is
// earlier.
func dayIndex(from, t time.Time) int {
	t = t.In(from.Location())
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	tDay := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, from.Location())
	return int(tDay.Sub(fromDay).Hours() / 24)
}
