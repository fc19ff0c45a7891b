package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/paisatrack/paisatrack/internal/models"
	"github.com/paisatrack/paisatrack/internal/storage"
)

// TransactionService owns the write path for transaction records and
// budgets. Records are immutable once created except for category
// correction.
type TransactionService struct {
	store storage.Store
}

// NewTransactionService creates a new TransactionService with the given
// storage backend.
func NewTransactionService(store storage.Store) *TransactionService {
	return &TransactionService{store: store}
}

// Record appends a transaction. A zero occurredAt means now.
func (s *TransactionService) Record(ctx context.Context, userID string, amount float64, category string, typ models.TransactionType, occurredAt time.Time) (*models.TransactionRecord, error) {
	if amount <= 0 {
		return nil, validationf("transaction amount must be positive, got %.2f", amount)
	}

	record := &models.TransactionRecord{
		UserID:     userID,
		Amount:     amount,
		Category:   category,
		Type:       typ,
		OccurredAt: occurredAt,
	}
	if err := s.store.CreateTransaction(ctx, record); err != nil {
		slog.Error("Record transaction failed", "user_id", userID, "error", err)
		return nil, err
	}
	return record, nil
}

// List retrieves the user's transactions matching the filter, oldest first.
func (s *TransactionService) List(ctx context.Context, userID string, filter storage.TransactionFilter) ([]models.TransactionRecord, error) {
	return s.store.ListTransactions(ctx, userID, filter)
}

// Recategorize corrects a record's category.
func (s *TransactionService) Recategorize(ctx context.Context, userID, recordID, category string) error {
	err := s.store.UpdateTransactionCategory(ctx, recordID, userID, category)
	if errors.Is(err, storage.ErrNotFound) {
		return notFoundf("transaction %q", recordID)
	}
	return err
}

// SetBudget creates or replaces a monthly spending limit for the user,
// optionally narrowed to one category.
func (s *TransactionService) SetBudget(ctx context.Context, userID, category string, monthlyLimit float64) error {
	if monthlyLimit <= 0 {
		return validationf("budget limit must be positive, got %.2f", monthlyLimit)
	}
	return s.store.SetBudget(ctx, &models.Budget{
		UserID:       userID,
		Category:     category,
		MonthlyLimit: monthlyLimit,
	})
}
