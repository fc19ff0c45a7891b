package sqlite

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/paisatrack/paisatrack/internal/models"
	"github.com/paisatrack/paisatrack/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "paisatrack-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreSplits(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateSplit generates ID and description", func(t *testing.T) {
		split := &models.BillSplit{
			TotalAmount:  300.0,
			Method:       models.SplitEqual,
			Participants: []string{"alice", "bob"},
			CreatedBy:    "alice",
			PaidBy:       "alice",
			Shares: []models.Share{
				{Participant: "alice", Amount: 150.0, Remaining: 150.0},
				{Participant: "bob", Amount: 150.0, Remaining: 150.0},
			},
		}

		if err := store.CreateSplit(ctx, split); err != nil {
			t.Fatalf("CreateSplit failed: %v", err)
		}
		if split.ID == "" {
			t.Error("Expected split ID to be generated")
		}
		if split.Description == "" {
			t.Error("Expected description to be generated")
		}
		if split.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetSplit retrieves complete split", func(t *testing.T) {
		original := &models.BillSplit{
			Description:  "Dinner at Saravana Bhavan",
			TotalAmount:  30.0,
			Method:       models.SplitByItem,
			Participants: []string{"alice", "bob"},
			CreatedBy:    "alice",
			PaidBy:       "bob",
			Shares: []models.Share{
				{Participant: "alice", Amount: 20.0, Remaining: 20.0},
				{Participant: "bob", Amount: 10.0, Remaining: 10.0},
			},
			Items: []models.SplitItem{
				{Description: "Masala Dosa", Amount: 20.0, AssignedTo: []string{"alice", "bob"}},
				{Description: "Filter Coffee", Amount: 10.0, AssignedTo: []string{"alice"}},
			},
		}

		if err := store.CreateSplit(ctx, original); err != nil {
			t.Fatalf("CreateSplit failed: %v", err)
		}

		retrieved, err := store.GetSplit(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetSplit failed: %v", err)
		}
		if retrieved.Description != original.Description {
			t.Errorf("Description mismatch: got %s, want %s", retrieved.Description, original.Description)
		}
		if retrieved.Method != models.SplitByItem {
			t.Errorf("Method mismatch: got %v, want by_item", retrieved.Method)
		}
		if retrieved.PaidBy != "bob" {
			t.Errorf("PaidBy mismatch: got %s, want bob", retrieved.PaidBy)
		}
		if len(retrieved.Shares) != 2 {
			t.Errorf("Shares count mismatch: got %d, want 2", len(retrieved.Shares))
		}
		if len(retrieved.Items) != 2 {
			t.Errorf("Items count mismatch: got %d, want 2", len(retrieved.Items))
		}
		for _, item := range retrieved.Items {
			if len(item.AssignedTo) == 0 {
				t.Errorf("Item %q has no assignments", item.Description)
			}
		}
	})

	t.Run("GetSplit returns ErrNotFound for missing split", func(t *testing.T) {
		_, err := store.GetSplit(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetSplit error = %v, want ErrNotFound", err)
		}
	})

	t.Run("DeleteSplit cascades shares", func(t *testing.T) {
		split := &models.BillSplit{
			TotalAmount:  100.0,
			Method:       models.SplitEqual,
			Participants: []string{"alice", "bob"},
			CreatedBy:    "alice",
			PaidBy:       "alice",
			Shares: []models.Share{
				{Participant: "alice", Amount: 50.0, Remaining: 50.0},
				{Participant: "bob", Amount: 50.0, Remaining: 50.0},
			},
		}
		if err := store.CreateSplit(ctx, split); err != nil {
			t.Fatalf("CreateSplit failed: %v", err)
		}

		if err := store.DeleteSplit(ctx, split.ID); err != nil {
			t.Fatalf("DeleteSplit failed: %v", err)
		}
		if _, err := store.GetSplit(ctx, split.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetSplit after delete = %v, want ErrNotFound", err)
		}

		open, err := store.ListOpenShares(ctx, "")
		if err != nil {
			t.Fatalf("ListOpenShares failed: %v", err)
		}
		for _, share := range open {
			if share.SplitID == split.ID {
				t.Errorf("Open share %v survived split deletion", share)
			}
		}
	})

	t.Run("DeleteSplit returns ErrNotFound for missing split", func(t *testing.T) {
		if err := store.DeleteSplit(ctx, "nonexistent-id"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("DeleteSplit error = %v, want ErrNotFound", err)
		}
	})
}

func TestSQLiteStoreSettlement(t *testing.T) {
	ctx := context.Background()

	// One split: bob owes alice 60, carol owes alice 40.
	seed := func(t *testing.T, store *SQLiteStore) {
		t.Helper()
		split := &models.BillSplit{
			TotalAmount:  150.0,
			Method:       models.SplitCustom,
			Participants: []string{"alice", "bob", "carol"},
			CreatedBy:    "alice",
			PaidBy:       "alice",
			Shares: []models.Share{
				{Participant: "alice", Amount: 50.0, Remaining: 50.0},
				{Participant: "bob", Amount: 60.0, Remaining: 60.0},
				{Participant: "carol", Amount: 40.0, Remaining: 40.0},
			},
		}
		if err := store.CreateSplit(ctx, split); err != nil {
			t.Fatalf("CreateSplit failed: %v", err)
		}
	}

	outstanding := func(t *testing.T, store *SQLiteStore, from, to string) float64 {
		t.Helper()
		open, err := store.ListOpenShares(ctx, "")
		if err != nil {
			t.Fatalf("ListOpenShares failed: %v", err)
		}
		var total float64
		for _, share := range open {
			if share.Participant == from && share.PaidBy == to {
				total += share.Remaining
			}
		}
		return total
	}

	t.Run("payer's own share is never a debt", func(t *testing.T) {
		store := newTestStore(t)
		seed(t, store)

		open, err := store.ListOpenShares(ctx, "")
		if err != nil {
			t.Fatalf("ListOpenShares failed: %v", err)
		}
		if len(open) != 2 {
			t.Fatalf("got %d open shares, want 2 (alice's own excluded): %v", len(open), open)
		}
	})

	t.Run("partial settlement leaves remainder", func(t *testing.T) {
		store := newTestStore(t)
		seed(t, store)

		if err := store.SettleShares(ctx, "bob", "alice", "", 25.0); err != nil {
			t.Fatalf("SettleShares failed: %v", err)
		}
		if got := outstanding(t, store, "bob", "alice"); math.Abs(got-35.0) > 0.001 {
			t.Errorf("bob outstanding = %v, want 35", got)
		}
		// carol untouched
		if got := outstanding(t, store, "carol", "alice"); math.Abs(got-40.0) > 0.001 {
			t.Errorf("carol outstanding = %v, want 40", got)
		}
	})

	t.Run("full settlement marks shares settled", func(t *testing.T) {
		store := newTestStore(t)
		seed(t, store)

		if err := store.SettleShares(ctx, "bob", "alice", "", 60.0); err != nil {
			t.Fatalf("SettleShares failed: %v", err)
		}
		if got := outstanding(t, store, "bob", "alice"); got != 0 {
			t.Errorf("bob outstanding = %v, want 0", got)
		}
	})

	t.Run("overpayment is rejected and nothing applied", func(t *testing.T) {
		store := newTestStore(t)
		seed(t, store)

		err := store.SettleShares(ctx, "bob", "alice", "", 60.01)
		if !errors.Is(err, storage.ErrInsufficientDebt) {
			t.Fatalf("SettleShares error = %v, want ErrInsufficientDebt", err)
		}
		if got := outstanding(t, store, "bob", "alice"); math.Abs(got-60.0) > 0.001 {
			t.Errorf("bob outstanding = %v after rejected payment, want 60 untouched", got)
		}
	})

	t.Run("settlement spans multiple splits smallest first", func(t *testing.T) {
		store := newTestStore(t)
		seed(t, store)
		second := &models.BillSplit{
			TotalAmount:  20.0,
			Method:       models.SplitCustom,
			Participants: []string{"alice", "bob"},
			CreatedBy:    "alice",
			PaidBy:       "alice",
			Shares: []models.Share{
				{Participant: "alice", Amount: 10.0, Remaining: 10.0},
				{Participant: "bob", Amount: 10.0, Remaining: 10.0},
			},
		}
		if err := store.CreateSplit(ctx, second); err != nil {
			t.Fatalf("CreateSplit failed: %v", err)
		}

		// 30 clears the 10 share fully and takes 20 off the 60 share.
		if err := store.SettleShares(ctx, "bob", "alice", "", 30.0); err != nil {
			t.Fatalf("SettleShares failed: %v", err)
		}
		if got := outstanding(t, store, "bob", "alice"); math.Abs(got-40.0) > 0.001 {
			t.Errorf("bob outstanding = %v, want 40", got)
		}

		open, err := store.ListOpenShares(ctx, "")
		if err != nil {
			t.Fatalf("ListOpenShares failed: %v", err)
		}
		for _, share := range open {
			if share.SplitID == second.ID && share.Participant == "bob" {
				t.Errorf("smallest share %v still open, want it consumed first", share)
			}
		}
	})

	t.Run("group scope isolates settlements", func(t *testing.T) {
		store := newTestStore(t)

		group := &models.Group{Name: "Flatmates", CreatedBy: "alice", Members: []string{"alice", "bob"}}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		grouped := &models.BillSplit{
			TotalAmount:  100.0,
			Method:       models.SplitEqual,
			Participants: []string{"alice", "bob"},
			CreatedBy:    "alice",
			PaidBy:       "alice",
			GroupID:      group.ID,
			Shares: []models.Share{
				{Participant: "alice", Amount: 50.0, Remaining: 50.0},
				{Participant: "bob", Amount: 50.0, Remaining: 50.0},
			},
		}
		if err := store.CreateSplit(ctx, grouped); err != nil {
			t.Fatalf("CreateSplit failed: %v", err)
		}
		seed(t, store) // ungrouped: bob owes alice 60

		// Paying 50 scoped to the group must not touch the ungrouped 60.
		if err := store.SettleShares(ctx, "bob", "alice", group.ID, 50.0); err != nil {
			t.Fatalf("SettleShares failed: %v", err)
		}
		open, err := store.ListOpenShares(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListOpenShares failed: %v", err)
		}
		if len(open) != 0 {
			t.Errorf("group still has open shares: %v", open)
		}
		if got := outstanding(t, store, "bob", "alice"); math.Abs(got-60.0) > 0.001 {
			t.Errorf("ungrouped outstanding = %v, want 60 untouched", got)
		}
	})
}

func TestSQLiteStoreUsersAndGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("user round trip by email and id", func(t *testing.T) {
		user := models.NewUser("asha@example.in", "Asha", "hash")
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		byEmail, err := store.GetUserByEmail(ctx, "asha@example.in")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail.ID != user.ID || byEmail.DisplayName != "Asha" {
			t.Errorf("GetUserByEmail = %+v, want %+v", byEmail, user)
		}

		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID.Email != user.Email {
			t.Errorf("GetUserByID email = %s, want %s", byID.Email, user.Email)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		if err := store.CreateUser(ctx, models.NewUser("asha@example.in", "Other", "hash")); err == nil {
			t.Error("Expected error for duplicate email, got nil")
		}
	})

	t.Run("missing user is ErrNotFound", func(t *testing.T) {
		if _, err := store.GetUserByID(ctx, "nonexistent"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetUserByID error = %v, want ErrNotFound", err)
		}
	})

	t.Run("group membership round trip", func(t *testing.T) {
		group := &models.Group{Name: "Goa Trip", CreatedBy: "alice", Members: []string{"alice", "bob"}}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		if err := store.AddGroupMembers(ctx, group.ID, []string{"bob", "carol"}); err != nil {
			t.Fatalf("AddGroupMembers failed: %v", err)
		}

		retrieved, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(retrieved.Members) != 3 {
			t.Errorf("Members = %v, want alice, bob, carol", retrieved.Members)
		}

		groups, err := store.ListGroupsByMember(ctx, "carol")
		if err != nil {
			t.Fatalf("ListGroupsByMember failed: %v", err)
		}
		if len(groups) != 1 || groups[0].ID != group.ID {
			t.Errorf("ListGroupsByMember = %v, want the Goa Trip group", groups)
		}
	})

	t.Run("settlement record round trip", func(t *testing.T) {
		group := &models.Group{Name: "Flatmates", CreatedBy: "alice", Members: []string{"alice", "bob"}}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		settlement := &models.Settlement{
			GroupID:    group.ID,
			FromUserID: "bob",
			ToUserID:   "alice",
			Amount:     250.0,
			Note:       "UPI transfer",
		}
		if err := store.CreateSettlement(ctx, settlement); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}
		if settlement.ID == "" {
			t.Error("Expected settlement ID to be generated")
		}

		settlements, err := store.ListSettlementsByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListSettlementsByGroup failed: %v", err)
		}
		if len(settlements) != 1 || settlements[0].Note != "UPI transfer" {
			t.Errorf("ListSettlementsByGroup = %v, want the recorded payment", settlements)
		}
	})
}

func TestSQLiteStoreTransactions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	records := []*models.TransactionRecord{
		{UserID: "asha", Amount: 120.0, Category: "food", Type: models.TypeExpense, OccurredAt: base},
		{UserID: "asha", Amount: 500.0, Category: "travel", Type: models.TypeExpense, OccurredAt: base.AddDate(0, 0, 2)},
		{UserID: "asha", Amount: 90000.0, Category: "salary", Type: models.TypeIncome, OccurredAt: base.AddDate(0, 0, 3)},
		{UserID: "ravi", Amount: 75.0, Category: "food", Type: models.TypeExpense, OccurredAt: base},
	}
	for _, record := range records {
		if err := store.CreateTransaction(ctx, record); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}

	t.Run("list is scoped to user and ordered", func(t *testing.T) {
		got, err := store.ListTransactions(ctx, "asha", storage.TransactionFilter{})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("got %d records, want 3", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i].OccurredAt.Before(got[i-1].OccurredAt) {
				t.Errorf("records out of order at %d: %v before %v", i, got[i].OccurredAt, got[i-1].OccurredAt)
			}
		}
	})

	t.Run("category and type filters", func(t *testing.T) {
		category := "food"
		got, err := store.ListTransactions(ctx, "asha", storage.TransactionFilter{Category: &category})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(got) != 1 || got[0].Amount != 120.0 {
			t.Errorf("category filter = %v, want the single food expense", got)
		}

		typ := models.TypeIncome
		got, err = store.ListTransactions(ctx, "asha", storage.TransactionFilter{Type: &typ})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(got) != 1 || got[0].Category != "salary" {
			t.Errorf("type filter = %v, want the salary record", got)
		}
	})

	t.Run("time window filter", func(t *testing.T) {
		got, err := store.ListTransactions(ctx, "asha", storage.TransactionFilter{
			From: base.AddDate(0, 0, 1),
			To:   base.AddDate(0, 0, 2),
		})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(got) != 1 || got[0].Category != "travel" {
			t.Errorf("window filter = %v, want the travel expense", got)
		}
	})

	t.Run("recategorize enforces ownership", func(t *testing.T) {
		target, err := store.ListTransactions(ctx, "ravi", storage.TransactionFilter{})
		if err != nil || len(target) != 1 {
			t.Fatalf("setup: ListTransactions = %v, %v", target, err)
		}

		err = store.UpdateTransactionCategory(ctx, target[0].ID, "asha", "dining")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("cross-user update error = %v, want ErrNotFound", err)
		}

		if err := store.UpdateTransactionCategory(ctx, target[0].ID, "ravi", "dining"); err != nil {
			t.Fatalf("UpdateTransactionCategory failed: %v", err)
		}
		got, _ := store.ListTransactions(ctx, "ravi", storage.TransactionFilter{})
		if got[0].Category != "dining" {
			t.Errorf("Category = %s, want dining", got[0].Category)
		}
	})

	t.Run("budget upsert and absence", func(t *testing.T) {
		if budget, err := store.GetBudget(ctx, "asha", ""); err != nil || budget != nil {
			t.Errorf("GetBudget unset = %v, %v; want nil, nil", budget, err)
		}

		if err := store.SetBudget(ctx, &models.Budget{UserID: "asha", MonthlyLimit: 8000.0}); err != nil {
			t.Fatalf("SetBudget failed: %v", err)
		}
		if err := store.SetBudget(ctx, &models.Budget{UserID: "asha", MonthlyLimit: 9000.0}); err != nil {
			t.Fatalf("SetBudget (replace) failed: %v", err)
		}

		budget, err := store.GetBudget(ctx, "asha", "")
		if err != nil {
			t.Fatalf("GetBudget failed: %v", err)
		}
		if budget == nil || budget.MonthlyLimit != 9000.0 {
			t.Errorf("GetBudget = %+v, want replaced 9000 limit", budget)
		}
	})
}

func TestGenerateDescription(t *testing.T) {
	tests := []struct {
		participants []string
		wantContains string
	}{
		{[]string{}, "Split -"},
		{[]string{"alice"}, "Split with alice"},
		{[]string{"alice", "bob", "carol"}, "Split with alice, bob, carol"},
		{[]string{"alice", "bob", "carol", "dev"}, "and 2 others"},
	}

	for _, tt := range tests {
		t.Run(tt.wantContains, func(t *testing.T) {
			got := generateDescription(tt.participants)
			if !strings.Contains(got, tt.wantContains) {
				t.Errorf("generateDescription(%v) = %q, want to contain %q", tt.participants, got, tt.wantContains)
			}
		})
	}
}
