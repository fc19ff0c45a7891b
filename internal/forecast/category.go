package forecast

import (
	"sort"
	"time"

	"github.com/paisatrack/paisatrack/internal/models"
)

// Days of history used to establish per-category daily averages.
const categoryHistoryDays = 30

// CategoryProjection extrapolates one category's spend over a future
// horizon. Confidence decays as the horizon grows and is bounded (0, 1].
type CategoryProjection struct {
	Category        string
	DailyAverage    float64
	ProjectedAmount float64
	Confidence      float64
}

// CategoryForecasts projects each category daysAhead days forward from its
// trailing 30-day daily average. Categories with no spending in the window
// are omitted. daysAhead must be positive; the caller validates.
func CategoryForecasts(txns []models.TransactionRecord, asOf time.Time, daysAhead int) []CategoryProjection {
	windowStart := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location()).
		AddDate(0, 0, -(categoryHistoryDays - 1))

	totals := make(map[string]float64)
	for _, t := range txns {
		if t.Type != models.TypeExpense {
			continue
		}
		if day := dayIndex(windowStart, t.OccurredAt); day >= 0 && day < categoryHistoryDays {
			totals[t.Category] += t.Amount
		}
	}

	// Longer horizons extrapolate further beyond observed history, so
	// confidence shrinks hyperbolically with the horizon.
	conf := float64(categoryHistoryDays) / float64(categoryHistoryDays+daysAhead)

	projections := make([]CategoryProjection, 0, len(totals))
	for category, total := range totals {
		avg := total / categoryHistoryDays
		projections = append(projections, CategoryProjection{
			Category:        category,
			DailyAverage:    avg,
			ProjectedAmount: avg * float64(daysAhead),
			Confidence:      conf,
		})
	}
	sort.Slice(projections, func(i, j int) bool {
		if projections[i].ProjectedAmount != projections[j].ProjectedAmount {
			return projections[i].ProjectedAmount > projections[j].ProjectedAmount
		}
		return projections[i].Category < projections[j].Category
	})
	return projections
}
