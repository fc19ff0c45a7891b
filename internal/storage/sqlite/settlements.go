package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/paisatrack/paisatrack/internal/models"
)

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, group_id, from_user, to_user, amount, created_at, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, nullable(settlement.GroupID), settlement.FromUserID, settlement.ToUserID,
		settlement.Amount, settlement.CreatedAt, nullable(settlement.Note),
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// ListSettlementsByGroup retrieves all settlements for a group, newest
// first.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, COALESCE(group_id, ''), from_user, to_user, amount, created_at, note
		 FROM settlements WHERE group_id = ? ORDER BY created_at DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by group: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		var note sql.NullString
		if err := rows.Scan(&settlement.ID, &settlement.GroupID, &settlement.FromUserID,
			&settlement.ToUserID, &settlement.Amount, &settlement.CreatedAt, &note); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		if note.Valid {
			settlement.Note = note.String
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}
