package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/paisatrack/paisatrack/internal/middleware"
	"github.com/paisatrack/paisatrack/internal/models"
	"github.com/paisatrack/paisatrack/internal/service"
	"github.com/paisatrack/paisatrack/internal/storage"
)

type recordTransactionRequest struct {
	Amount     float64 `json:"amount"`
	Category   string  `json:"category"`
	Type       string  `json:"type"`
	OccurredAt string  `json:"occurred_at"` // RFC 3339, optional
}

type transactionResponse struct {
	ID         string  `json:"id"`
	Amount     float64 `json:"amount"`
	Category   string  `json:"category"`
	Type       string  `json:"type"`
	OccurredAt string  `json:"occurred_at"`
}

func toTransactionResponse(record *models.TransactionRecord) transactionResponse {
	return transactionResponse{
		ID:         record.ID,
		Amount:     record.Amount,
		Category:   record.Category,
		Type:       record.Type.String(),
		OccurredAt: record.OccurredAt.Format(time.RFC3339),
	}
}

func recordTransactionHandler(svc *service.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordTransactionRequest
		if !decodeBody(w, r, &req) {
			return
		}

		typ, err := models.ParseTransactionType(req.Type)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var occurredAt time.Time
		if req.OccurredAt != "" {
			occurredAt, err = time.Parse(time.RFC3339, req.OccurredAt)
			if err != nil {
				writeError(w, http.StatusBadRequest, "occurred_at must be RFC 3339")
				return
			}
		}

		record, err := svc.Record(r.Context(),
			middleware.GetUserID(r.Context()), req.Amount, req.Category, typ, occurredAt)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toTransactionResponse(record))
	}
}

func listTransactionsHandler(svc *service.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter storage.TransactionFilter
		if v := r.URL.Query().Get("category"); v != "" {
			filter.Category = &v
		}
		if v := r.URL.Query().Get("type"); v != "" {
			typ, err := models.ParseTransactionType(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			filter.Type = &typ
		}

		records, err := svc.List(r.Context(), middleware.GetUserID(r.Context()), filter)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		resp := make([]transactionResponse, 0, len(records))
		for i := range records {
			resp = append(resp, toTransactionResponse(&records[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type recategorizeRequest struct {
	Category string `json:"category"`
}

func recategorizeTransactionHandler(svc *service.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recategorizeRequest
		if !decodeBody(w, r, &req) {
			return
		}
		err := svc.Recategorize(r.Context(),
			middleware.GetUserID(r.Context()), chi.URLParam(r, "transactionID"), req.Category)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

type setBudgetRequest struct {
	Category     string  `json:"category"`
	MonthlyLimit float64 `json:"monthly_limit"`
}

func setBudgetHandler(svc *service.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setBudgetRequest
		if !decodeBody(w, r, &req) {
			return
		}
		err := svc.SetBudget(r.Context(),
			middleware.GetUserID(r.Context()), req.Category, req.MonthlyLimit)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
	}
}
