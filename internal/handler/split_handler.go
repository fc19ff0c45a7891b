package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paisatrack/paisatrack/internal/ledger"
	"github.com/paisatrack/paisatrack/internal/middleware"
	"github.com/paisatrack/paisatrack/internal/models"
	"github.com/paisatrack/paisatrack/internal/service"
)

type itemRequest struct {
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	AssignedTo  []string `json:"assigned_to"`
}

type createSplitRequest struct {
	Description  string             `json:"description"`
	TotalAmount  float64            `json:"total_amount"`
	SplitMethod  string             `json:"split_method"`
	Participants []string           `json:"participants"`
	PaidBy       string             `json:"paid_by"`
	GroupID      string             `json:"group_id"`
	Weights      map[string]float64 `json:"weights"`
	Amounts      map[string]float64 `json:"amounts"`
	Items        []itemRequest      `json:"items"`
}

type shareResponse struct {
	Participant string  `json:"participant"`
	Amount      float64 `json:"amount"`
	Remaining   float64 `json:"remaining"`
	Settled     bool    `json:"settled"`
}

type splitResponse struct {
	ID           string          `json:"id"`
	Description  string          `json:"description"`
	TotalAmount  float64         `json:"total_amount"`
	SplitMethod  string          `json:"split_method"`
	Participants []string        `json:"participants"`
	CreatedBy    string          `json:"created_by"`
	PaidBy       string          `json:"paid_by"`
	GroupID      string          `json:"group_id,omitempty"`
	Shares       []shareResponse `json:"shares"`
	CreatedAt    int64           `json:"created_at"`
}

func toSplitResponse(split *models.BillSplit) splitResponse {
	resp := splitResponse{
		ID:           split.ID,
		Description:  split.Description,
		TotalAmount:  split.TotalAmount,
		SplitMethod:  split.Method.String(),
		Participants: split.Participants,
		CreatedBy:    split.CreatedBy,
		PaidBy:       split.PaidBy,
		GroupID:      split.GroupID,
		CreatedAt:    split.CreatedAt,
	}
	for _, share := range split.Shares {
		resp.Shares = append(resp.Shares, shareResponse{
			Participant: share.Participant,
			Amount:      share.Amount,
			Remaining:   share.Remaining,
			Settled:     share.Settled,
		})
	}
	return resp
}

func createSplitHandler(svc *service.SplitService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSplitRequest
		if !decodeBody(w, r, &req) {
			return
		}

		method, err := models.ParseSplitMethod(req.SplitMethod)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		items := make([]ledger.ItemInput, len(req.Items))
		for i, item := range req.Items {
			items[i] = ledger.ItemInput{
				Description: item.Description,
				Amount:      item.Amount,
				AssignedTo:  item.AssignedTo,
			}
		}

		split, err := svc.CreateSplit(r.Context(), middleware.GetUserID(r.Context()), service.CreateSplitInput{
			Description:  req.Description,
			TotalAmount:  req.TotalAmount,
			Method:       method,
			Participants: req.Participants,
			PaidBy:       req.PaidBy,
			GroupID:      req.GroupID,
			Weights:      req.Weights,
			Amounts:      req.Amounts,
			Items:        items,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toSplitResponse(split))
	}
}

func getSplitHandler(svc *service.SplitService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		split, err := svc.GetSplit(r.Context(), chi.URLParam(r, "splitID"), middleware.GetUserID(r.Context()))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSplitResponse(split))
	}
}

func deleteSplitHandler(svc *service.SplitService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.DeleteSplit(r.Context(), chi.URLParam(r, "splitID"), middleware.GetUserID(r.Context()))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

type pairBalanceResponse struct {
	UserID string  `json:"user"`
	Amount float64 `json:"amount"`
}

type settlementInstruction struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type debtSummaryResponse struct {
	OwesMe        []pairBalanceResponse   `json:"owes_me"`
	IOwe          []pairBalanceResponse   `json:"i_owe"`
	TotalOwedToMe float64                 `json:"total_owed_to_me"`
	TotalIOwe     float64                 `json:"total_i_owe"`
	NetBalance    float64                 `json:"net_balance"`
	Settlements   []settlementInstruction `json:"settlements"`
}

func toDebtSummaryResponse(summary *ledger.Summary) debtSummaryResponse {
	resp := debtSummaryResponse{
		OwesMe:        []pairBalanceResponse{},
		IOwe:          []pairBalanceResponse{},
		TotalOwedToMe: summary.TotalOwedToMe,
		TotalIOwe:     summary.TotalIOwe,
		NetBalance:    summary.NetBalance,
		Settlements:   []settlementInstruction{},
	}
	for _, pair := range summary.OwesMe {
		resp.OwesMe = append(resp.OwesMe, pairBalanceResponse{UserID: pair.UserID, Amount: pair.Amount})
	}
	for _, pair := range summary.IOwe {
		resp.IOwe = append(resp.IOwe, pairBalanceResponse{UserID: pair.UserID, Amount: pair.Amount})
	}
	for _, instr := range summary.Settlements {
		resp.Settlements = append(resp.Settlements, settlementInstruction{
			From: instr.From, To: instr.To, Amount: instr.Amount,
		})
	}
	return resp
}

func debtSummaryHandler(svc *service.SplitService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.DebtSummary(r.Context(),
			middleware.GetUserID(r.Context()), r.URL.Query().Get("group_id"))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDebtSummaryResponse(summary))
	}
}

type settleDebtRequest struct {
	ToUser  string  `json:"to_user"`
	Amount  float64 `json:"amount"`
	GroupID string  `json:"group_id"`
	Note    string  `json:"note"`
}

type settlementResponse struct {
	ID         string  `json:"id"`
	FromUserID string  `json:"from_user"`
	ToUserID   string  `json:"to_user"`
	Amount     float64 `json:"amount"`
	GroupID    string  `json:"group_id,omitempty"`
	Note       string  `json:"note,omitempty"`
	CreatedAt  int64   `json:"created_at"`
}

func settleDebtHandler(svc *service.SplitService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req settleDebtRequest
		if !decodeBody(w, r, &req) {
			return
		}

		settlement, err := svc.SettleDebt(r.Context(),
			middleware.GetUserID(r.Context()), req.ToUser, req.GroupID, req.Amount, req.Note)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, settlementResponse{
			ID:         settlement.ID,
			FromUserID: settlement.FromUserID,
			ToUserID:   settlement.ToUserID,
			Amount:     settlement.Amount,
			GroupID:    settlement.GroupID,
			Note:       settlement.Note,
			CreatedAt:  settlement.CreatedAt,
		})
	}
}
