package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/paisatrack/paisatrack/internal/forecast"
	"github.com/paisatrack/paisatrack/internal/middleware"
	"github.com/paisatrack/paisatrack/internal/service"
)

// parseAsOf reads an optional RFC 3339 as_of query parameter. A zero time
// means "now" to the service layer.
func parseAsOf(r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	return t, err == nil
}

type monthEndResponse struct {
	ProjectedTotal  float64  `json:"projected_total"`
	CurrentSpending float64  `json:"current_spending"`
	DaysElapsed     int      `json:"days_elapsed"`
	DaysRemaining   int      `json:"days_remaining"`
	DailyAverage    float64  `json:"daily_average"`
	BudgetLimit     *float64 `json:"budget_limit"`
	OverBudgetBy    *float64 `json:"over_budget_by"`
	ConfidenceLevel float64  `json:"confidence_level"`
	Tier            string   `json:"tier"`
	Recommendation  string   `json:"recommendation"`
}

func monthEndHandler(svc *service.ForecastService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asOf, ok := parseAsOf(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "as_of must be RFC 3339")
			return
		}

		f, err := svc.MonthEnd(r.Context(),
			middleware.GetUserID(r.Context()), r.URL.Query().Get("category"), asOf)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := monthEndResponse{
			ProjectedTotal:  f.ProjectedTotal,
			CurrentSpending: f.CurrentSpending,
			DaysElapsed:     f.DaysElapsed,
			DaysRemaining:   f.DaysRemaining,
			DailyAverage:    f.DailyAverage,
			ConfidenceLevel: f.ConfidenceLevel,
			Tier:            f.Tier,
			Recommendation:  f.Recommendation,
		}
		// Without a configured budget both fields are null, not zero: a
		// missing budget is not a zero budget.
		if f.HasBudget {
			resp.BudgetLimit = &f.BudgetLimit
			resp.OverBudgetBy = &f.OverBudgetBy
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type anomalyResponse struct {
	Category         string  `json:"category"`
	CurrentSpending  float64 `json:"current_spending"`
	AverageSpending  float64 `json:"average_spending"`
	DeviationPercent float64 `json:"deviation_percent"`
	Severity         string  `json:"severity"`
}

func toAnomalyResponses(anomalies []forecast.Anomaly) []anomalyResponse {
	resp := make([]anomalyResponse, 0, len(anomalies))
	for _, a := range anomalies {
		resp = append(resp, anomalyResponse{
			Category:         a.Category,
			CurrentSpending:  a.CurrentSpending,
			AverageSpending:  a.AverageSpending,
			DeviationPercent: a.DeviationPercent,
			Severity:         a.Severity,
		})
	}
	return resp
}

func anomaliesHandler(svc *service.ForecastService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lookback := 30
		if v := r.URL.Query().Get("lookback_days"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "lookback_days must be an integer")
				return
			}
			lookback = n
		}
		threshold := 2.0
		if v := r.URL.Query().Get("threshold"); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "threshold must be a number")
				return
			}
			threshold = f
		}
		asOf, ok := parseAsOf(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "as_of must be RFC 3339")
			return
		}

		anomalies, err := svc.Anomalies(r.Context(),
			middleware.GetUserID(r.Context()), lookback, threshold, asOf)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnomalyResponses(anomalies))
	}
}

type categoryTotalResponse struct {
	Category       string  `json:"category"`
	Amount         float64 `json:"amount"`
	PercentOfTotal float64 `json:"percent_of_total"`
}

type weeklyDigestResponse struct {
	WeekTotal         float64                 `json:"week_total"`
	PreviousWeekTotal float64                 `json:"previous_week_total"`
	ChangePercent     *float64                `json:"change_percent"`
	TopCategories     []categoryTotalResponse `json:"top_categories"`
	Anomalies         []anomalyResponse       `json:"anomalies"`
	Insights          []string                `json:"insights"`
}

func weeklyDigestHandler(svc *service.ForecastService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asOf, ok := parseAsOf(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "as_of must be RFC 3339")
			return
		}

		digest, err := svc.WeeklyDigest(r.Context(), middleware.GetUserID(r.Context()), asOf)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := weeklyDigestResponse{
			WeekTotal:         digest.WeekTotal,
			PreviousWeekTotal: digest.PreviousWeekTotal,
			ChangePercent:     digest.ChangePercent,
			TopCategories:     []categoryTotalResponse{},
			Anomalies:         toAnomalyResponses(digest.Anomalies),
			Insights:          digest.Insights,
		}
		for _, ct := range digest.TopCategories {
			resp.TopCategories = append(resp.TopCategories, categoryTotalResponse{
				Category:       ct.Category,
				Amount:         ct.Amount,
				PercentOfTotal: ct.PercentOfTotal,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type categoryProjectionResponse struct {
	Category        string  `json:"category"`
	DailyAverage    float64 `json:"daily_average"`
	ProjectedAmount float64 `json:"projected_amount"`
	Confidence      float64 `json:"confidence"`
}

func categoryForecastHandler(svc *service.ForecastService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		daysAhead := 30
		if v := r.URL.Query().Get("days_ahead"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "days_ahead must be an integer")
				return
			}
			daysAhead = n
		}
		asOf, ok := parseAsOf(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "as_of must be RFC 3339")
			return
		}

		projections, err := svc.CategoryForecasts(r.Context(),
			middleware.GetUserID(r.Context()), daysAhead, asOf)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]categoryProjectionResponse, 0, len(projections))
		for _, p := range projections {
			resp = append(resp, categoryProjectionResponse{
				Category:        p.Category,
				DailyAverage:    p.DailyAverage,
				ProjectedAmount: p.ProjectedAmount,
				Confidence:      p.Confidence,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
