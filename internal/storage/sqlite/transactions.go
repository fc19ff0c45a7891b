package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/paisatrack/paisatrack/internal/models"
	"github.com/paisatrack/paisatrack/internal/storage"
)

// CreateTransaction appends a transaction record.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, record *models.TransactionRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, amount, category, type, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, record.UserID, record.Amount, record.Category,
		record.Type.String(), record.OccurredAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// ListTransactions retrieves a user's transactions matching the filter,
// oldest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, userID string, filter storage.TransactionFilter) ([]models.TransactionRecord, error) {
	query := `SELECT id, user_id, amount, category, type, occurred_at
		  FROM transactions WHERE user_id = ?`
	args := []any{userID}
	if filter.Category != nil {
		query += " AND category = ?"
		args = append(args, *filter.Category)
	}
	if filter.Type != nil {
		query += " AND type = ?"
		args = append(args, filter.Type.String())
	}
	if !filter.From.IsZero() {
		query += " AND occurred_at >= ?"
		args = append(args, filter.From.Unix())
	}
	if !filter.To.IsZero() {
		query += " AND occurred_at <= ?"
		args = append(args, filter.To.Unix())
	}
	query += " ORDER BY occurred_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var records []models.TransactionRecord
	for rows.Next() {
		var record models.TransactionRecord
		var typ string
		var occurredAt int64
		if err := rows.Scan(&record.ID, &record.UserID, &record.Amount,
			&record.Category, &typ, &occurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if record.Type, err = models.ParseTransactionType(typ); err != nil {
			return nil, fmt.Errorf("failed to parse transaction type: %w", err)
		}
		record.OccurredAt = time.Unix(occurredAt, 0)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return records, nil
}

// UpdateTransactionCategory corrects a record's category. The record must
// belong to userID.
func (s *SQLiteStore) UpdateTransactionCategory(ctx context.Context, recordID, userID, category string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE transactions SET category = ? WHERE id = ? AND user_id = ?",
		category, recordID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", recordID, storage.ErrNotFound)
	}
	return nil
}

// SetBudget creates or replaces a budget limit.
func (s *SQLiteStore) SetBudget(ctx context.Context, budget *models.Budget) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category, monthly_limit) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, category) DO UPDATE SET monthly_limit = excluded.monthly_limit`,
		budget.UserID, budget.Category, budget.MonthlyLimit,
	)
	if err != nil {
		return fmt.Errorf("failed to set budget: %w", err)
	}
	return nil
}

// GetBudget retrieves the budget for a user and category. An unconfigured
// budget is (nil, nil), not an error.
func (s *SQLiteStore) GetBudget(ctx context.Context, userID, category string) (*models.Budget, error) {
	budget := &models.Budget{}
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id, category, monthly_limit FROM budgets WHERE user_id = ? AND category = ?",
		userID, category,
	).Scan(&budget.UserID, &budget.Category, &budget.MonthlyLimit)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return budget, nil
}
