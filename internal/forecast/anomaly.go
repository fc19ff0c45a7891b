package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/paisatrack/paisatrack/internal/models"
)

// Anomaly severities.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// Anomaly reports a category whose current-day spend exceeds its own
// historical mean by more than threshold standard deviations.
type Anomaly struct {
	Category         string
	CurrentSpending  float64
	AverageSpending  float64
	DeviationPercent float64
	Severity         string
}

// DetectAnomalies compares each category's spend on asOf's calendar day
// against the mean and standard deviation of its daily spend over the
// lookbackDays days ending the day before asOf. The current, possibly
// partial, day is excluded from the baseline.
//
// A category is anomalous when current > mean + threshold*stddev, strictly:
// spend exactly at the boundary is not flagged. A category with a zero
// historical mean and any positive spend today is flagged at high severity,
// which also guards the deviation-percent division.
//
// Results are sorted by severity descending, then deviation descending.
func DetectAnomalies(txns []models.TransactionRecord, asOf time.Time, lookbackDays int, threshold float64) []Anomaly {
	if lookbackDays <= 0 {
		return nil
	}

	baselineStart := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location()).
		AddDate(0, 0, -lookbackDays)

	// Per category: zero-filled daily totals for the baseline window, plus
	// the current day's spend. Days with no spend count as zero days.
	baseline := make(map[string][]float64)
	current := make(map[string]float64)
	for _, t := range txns {
		if t.Type != models.TypeExpense {
			continue
		}
		day := dayIndex(baselineStart, t.OccurredAt)
		switch {
		case day >= 0 && day < lookbackDays:
			if _, ok := baseline[t.Category]; !ok {
				baseline[t.Category] = make([]float64, lookbackDays)
			}
			baseline[t.Category][day] += t.Amount
		case day == lookbackDays:
			current[t.Category] += t.Amount
		}
	}

	var anomalies []Anomaly
	for category, spend := range current {
		if spend <= 0 {
			continue
		}
		mean, stddev := meanStddev(baseline[category], lookbackDays)

		if mean == 0 {
			// Entirely new spending against a silent history: maximal
			// severity, with deviation pinned rather than divided by zero.
			anomalies = append(anomalies, Anomaly{
				Category:         category,
				CurrentSpending:  spend,
				AverageSpending:  0,
				DeviationPercent: 100,
				Severity:         SeverityHigh,
			})
			continue
		}

		if spend <= mean+threshold*stddev {
			continue
		}

		severity := SeverityHigh
		if stddev > 0 && (spend-mean)/stddev <= 3 {
			severity = SeverityMedium
		}
		anomalies = append(anomalies, Anomaly{
			Category:         category,
			CurrentSpending:  spend,
			AverageSpending:  mean,
			DeviationPercent: (spend - mean) / mean * 100,
			Severity:         severity,
		})
	}

	sort.Slice(anomalies, func(i, j int) bool {
		if anomalies[i].Severity != anomalies[j].Severity {
			return anomalies[i].Severity == SeverityHigh
		}
		if anomalies[i].DeviationPercent != anomalies[j].DeviationPercent {
			return anomalies[i].DeviationPercent > anomalies[j].DeviationPercent
		}
		return anomalies[i].Category < anomalies[j].Category
	})
	return anomalies
}

// meanStddev computes the mean and population standard deviation over n
// daily totals. A nil slice is n days of zero spend.
func meanStddev(daily []float64, n int) (mean, stddev float64) {
	if len(daily) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range daily {
		sum += v
	}
	mean = sum / float64(n)

	var sq float64
	for _, v := range daily {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(n))
}
