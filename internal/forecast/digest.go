package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/paisatrack/paisatrack/internal/models"
)

// CategoryTotal is one category's contribution to a week's spending.
type CategoryTotal struct {
	Category       string
	Amount         float64
	PercentOfTotal float64
}

// WeeklyDigest compares the last seven days of spending against the seven
// days before that. ChangePercent is nil when the previous week had no
// spending: new spending against an empty baseline is reported as such, not
// as an infinite percentage.
type WeeklyDigest struct {
	WeekTotal         float64
	PreviousWeekTotal float64
	ChangePercent     *float64
	TopCategories     []CategoryTotal
	Anomalies         []Anomaly
	Insights          []string
}

// Digest builds the weekly digest for the seven-day window ending on asOf's
// calendar day. Insights are deterministic templates over the computed
// numbers; no external calls are involved.
func Digest(txns []models.TransactionRecord, asOf time.Time) WeeklyDigest {
	// Window: previous week is days 0..6 from windowStart, current week is
	// days 7..13, ending on asOf's day.
	windowStart := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location()).
		AddDate(0, 0, -13)

	var week, previous float64
	byCategory := make(map[string]float64)
	for _, t := range txns {
		if t.Type != models.TypeExpense {
			continue
		}
		day := dayIndex(windowStart, t.OccurredAt)
		switch {
		case day >= 7 && day < 14:
			week += t.Amount
			byCategory[t.Category] += t.Amount
		case day >= 0 && day < 7:
			previous += t.Amount
		}
	}

	d := WeeklyDigest{
		WeekTotal:         week,
		PreviousWeekTotal: previous,
		Anomalies:         DetectAnomalies(txns, asOf, 7, 2.0),
	}
	if previous > 0 {
		change := (week - previous) / previous * 100
		d.ChangePercent = &change
	}

	for category, amount := range byCategory {
		ct := CategoryTotal{Category: category, Amount: amount}
		if week > 0 {
			ct.PercentOfTotal = amount / week * 100
		}
		d.TopCategories = append(d.TopCategories, ct)
	}
	sort.Slice(d.TopCategories, func(i, j int) bool {
		if d.TopCategories[i].Amount != d.TopCategories[j].Amount {
			return d.TopCategories[i].Amount > d.TopCategories[j].Amount
		}
		return d.TopCategories[i].Category < d.TopCategories[j].Category
	})

	d.Insights = buildInsights(d)
	return d
}

func buildInsights(d WeeklyDigest) []string {
	var insights []string

	switch {
	case d.WeekTotal == 0 && d.PreviousWeekTotal == 0:
		insights = append(insights, "No spending recorded in the last two weeks.")
	case d.ChangePercent == nil:
		insights = append(insights, fmt.Sprintf(
			"You spent ₹%.2f this week after a week with no spending.", d.WeekTotal))
	case math.Abs(*d.ChangePercent) < 5:
		insights = append(insights, "Spending is steady week over week.")
	case *d.ChangePercent > 0:
		insights = append(insights, fmt.Sprintf(
			"Spending rose %.0f%% from last week (₹%.2f vs ₹%.2f).",
			*d.ChangePercent, d.WeekTotal, d.PreviousWeekTotal))
	default:
		insights = append(insights, fmt.Sprintf(
			"Spending dropped %.0f%% from last week (₹%.2f vs ₹%.2f).",
			-*d.ChangePercent, d.WeekTotal, d.PreviousWeekTotal))
	}

	if len(d.TopCategories) > 0 && d.TopCategories[0].Amount > 0 {
		top := d.TopCategories[0]
		name := top.Category
		if name == "" {
			name = "uncategorized"
		}
		insights = append(insights, fmt.Sprintf(
			"Your biggest category was %s at ₹%.2f (%.0f%% of the week).",
			name, top.Amount, top.PercentOfTotal))
	}

	if n := len(d.Anomalies); n > 0 {
		insights = append(insights, fmt.Sprintf(
			"%d category(ies) spiked above their usual range today.", n))
	}
	return insights
}
