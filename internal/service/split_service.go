package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/paisatrack/paisatrack/internal/ledger"
	"github.com/paisatrack/paisatrack/internal/models"
	"github.com/paisatrack/paisatrack/internal/storage"
)

// SplitService owns the debt ledger: creating splits, summarizing debts,
// applying settlements, and deleting splits.
type SplitService struct {
	store storage.Store
}

// NewSplitService creates a new SplitService with the given storage backend.
func NewSplitService(store storage.Store) *SplitService {
	return &SplitService{store: store}
}

// CreateSplitInput carries everything needed to create one split. Weights,
// Amounts, and Items are each consulted only by the matching method.
type CreateSplitInput struct {
	Description  string
	TotalAmount  float64
	Method       models.SplitMethod
	Participants []string
	PaidBy       string // defaults to the creator
	GroupID      string
	Weights      map[string]float64
	Amounts      map[string]float64
	Items        []ledger.ItemInput
}

// isParticipant checks if the user is in the participants list.
func isParticipant(userID string, participants []string) bool {
	for _, p := range participants {
		if p == userID {
			return true
		}
	}
	return false
}

// CreateSplit validates the input, computes shares for the chosen method,
// and persists the split atomically. It is all-or-nothing: validation runs
// before any row is written.
func (s *SplitService) CreateSplit(ctx context.Context, createdBy string, in CreateSplitInput) (*models.BillSplit, error) {
	if createdBy == "" {
		return nil, ErrUnauthenticated
	}
	if !isParticipant(createdBy, in.Participants) {
		return nil, validationf("creator %q must be one of the participants", createdBy)
	}
	paidBy := in.PaidBy
	if paidBy == "" {
		paidBy = createdBy
	}
	if !isParticipant(paidBy, in.Participants) {
		return nil, validationf("payer %q must be one of the participants", paidBy)
	}

	shares, err := ledger.ComputeShares(ledger.SplitInput{
		Total:        in.TotalAmount,
		Method:       in.Method,
		Participants: in.Participants,
		Weights:      in.Weights,
		Amounts:      in.Amounts,
		Items:        in.Items,
	})
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidSplit) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, err
	}

	if in.GroupID != "" {
		if _, err := s.store.GetGroup(ctx, in.GroupID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, notFoundf("group %q", in.GroupID)
			}
			return nil, err
		}
	}

	split := &models.BillSplit{
		Description:  in.Description,
		TotalAmount:  in.TotalAmount,
		Method:       in.Method,
		Participants: in.Participants,
		CreatedBy:    createdBy,
		PaidBy:       paidBy,
		GroupID:      in.GroupID,
	}
	for _, share := range shares {
		split.Shares = append(split.Shares, models.Share{
			Participant: share.Participant,
			Amount:      share.Amount,
			Remaining:   share.Amount,
		})
	}
	for _, item := range in.Items {
		split.Items = append(split.Items, models.SplitItem{
			Description: item.Description,
			Amount:      item.Amount,
			AssignedTo:  item.AssignedTo,
		})
	}

	if err := s.store.CreateSplit(ctx, split); err != nil {
		slog.Error("CreateSplit failed", "error", err)
		return nil, err
	}

	// Participants the creator splits with belong in the group's roster.
	s.autoAddParticipantsToGroup(ctx, split.GroupID, split.Participants)

	slog.Info("Split created",
		"split_id", split.ID,
		"method", split.Method.String(),
		"total", split.TotalAmount,
		"participants", len(split.Participants),
	)
	return split, nil
}

// autoAddParticipantsToGroup adds any split participants not already in the
// group. Failures are logged, not returned: the split itself is already
// committed.
func (s *SplitService) autoAddParticipantsToGroup(ctx context.Context, groupID string, participants []string) {
	if groupID == "" {
		return
	}
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		slog.Warn("autoAddParticipantsToGroup: failed to get group", "group_id", groupID, "error", err)
		return
	}

	memberSet := make(map[string]bool, len(group.Members))
	for _, m := range group.Members {
		memberSet[m] = true
	}
	var newMembers []string
	for _, p := range participants {
		if !memberSet[p] {
			newMembers = append(newMembers, p)
		}
	}
	if len(newMembers) == 0 {
		return
	}

	if err := s.store.AddGroupMembers(ctx, groupID, newMembers); err != nil {
		slog.Error("autoAddParticipantsToGroup: failed to add members", "group_id", groupID, "error", err)
		return
	}
	slog.Info("Auto-added participants to group", "group_id", groupID, "new_members", newMembers)
}

// GetSplit retrieves a split. Only participants may view it.
func (s *SplitService) GetSplit(ctx context.Context, splitID, requester string) (*models.BillSplit, error) {
	split, err := s.store.GetSplit(ctx, splitID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFoundf("split %q", splitID)
		}
		return nil, err
	}
	if !isParticipant(requester, split.Participants) {
		return nil, permissionf("user %q is not a participant of split %q", requester, splitID)
	}
	return split, nil
}

// DebtSummary aggregates all unsettled shares involving userID into net
// pairwise balances and a settlement plan. With a group ID the scope
// narrows to that group's ledger; the requester must be a member.
func (s *SplitService) DebtSummary(ctx context.Context, userID, groupID string) (*ledger.Summary, error) {
	if groupID != "" {
		group, err := s.store.GetGroup(ctx, groupID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, notFoundf("group %q", groupID)
			}
			return nil, err
		}
		if !isParticipant(userID, group.Members) {
			return nil, permissionf("user %q is not a member of group %q", userID, groupID)
		}
	}

	open, err := s.store.ListOpenShares(ctx, groupID)
	if err != nil {
		slog.Error("DebtSummary: failed to list open shares", "error", err)
		return nil, err
	}

	debts := make([]ledger.Debt, 0, len(open))
	for _, share := range open {
		debts = append(debts, ledger.Debt{
			Ower:   share.Participant,
			Owee:   share.PaidBy,
			Amount: share.Remaining,
		})
	}
	return ledger.BuildSummary(userID, debts), nil
}

// SettleDebt applies a payment from fromUser to toUser against their
// outstanding shares, smallest first, partial settlement allowed. A payment
// exceeding the outstanding total fails with ErrOverpayment and applies
// nothing; callers must pass the exact outstanding amount or less. Applied
// settlements are recorded append-only.
func (s *SplitService) SettleDebt(ctx context.Context, fromUser, toUser, groupID string, amount float64, note string) (*models.Settlement, error) {
	if amount <= 0 {
		return nil, validationf("settlement amount must be positive, got %.2f", amount)
	}
	if fromUser == toUser {
		return nil, validationf("cannot settle a debt with yourself")
	}

	if err := s.store.SettleShares(ctx, fromUser, toUser, groupID, amount); err != nil {
		if errors.Is(err, storage.ErrInsufficientDebt) {
			return nil, fmt.Errorf("%w: %v", ErrOverpayment, err)
		}
		slog.Error("SettleDebt failed", "from", fromUser, "to", toUser, "error", err)
		return nil, err
	}

	settlement := &models.Settlement{
		GroupID:    groupID,
		FromUserID: fromUser,
		ToUserID:   toUser,
		Amount:     amount,
		Note:       note,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("SettleDebt: failed to record settlement", "error", err)
		return nil, err
	}

	slog.Info("Debt settled", "from", fromUser, "to", toUser, "amount", amount, "group_id", groupID)
	return settlement, nil
}

// DeleteSplit removes a split on behalf of its creator. Deletion only stops
// future aggregation: settlements already applied against the split stay
// recorded.
func (s *SplitService) DeleteSplit(ctx context.Context, splitID, requester string) error {
	split, err := s.store.GetSplit(ctx, splitID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFoundf("split %q", splitID)
		}
		return err
	}
	if split.CreatedBy != requester {
		return permissionf("only the creator may delete split %q", splitID)
	}
	if err := s.store.DeleteSplit(ctx, splitID); err != nil {
		slog.Error("DeleteSplit failed", "split_id", splitID, "error", err)
		return err
	}
	slog.Info("Split deleted", "split_id", splitID, "by", requester)
	return nil
}
