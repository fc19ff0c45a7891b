package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paisatrack/paisatrack/internal/models"
	"github.com/paisatrack/paisatrack/internal/storage"
)

// Remaining amounts below this are floating-point dust and count as zero.
const paiseDust = 0.005

// CreateSplit persists a split with its shares and items in one transaction.
func (s *SQLiteStore) CreateSplit(ctx context.Context, split *models.BillSplit) error {
	if split.ID == "" {
		split.ID = uuid.New().String()
	}
	if split.CreatedAt == 0 {
		split.CreatedAt = time.Now().Unix()
	}
	if split.Description == "" {
		split.Description = generateDescription(split.Participants)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO splits (id, description, total, method, created_by, paid_by, group_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		split.ID, split.Description, split.TotalAmount, split.Method.String(),
		split.CreatedBy, split.PaidBy, nullable(split.GroupID), split.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert split: %w", err)
	}

	for i := range split.Shares {
		share := &split.Shares[i]
		share.SplitID = split.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO shares (split_id, participant, amount, remaining, settled)
			 VALUES (?, ?, ?, ?, ?)`,
			split.ID, share.Participant, share.Amount, share.Remaining, share.Settled,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	for i := range split.Items {
		item := &split.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO items (id, split_id, description, amount) VALUES (?, ?, ?, ?)",
			item.ID, split.ID, item.Description, item.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
		for _, participant := range item.AssignedTo {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO item_assignments (item_id, participant) VALUES (?, ?)",
				item.ID, participant,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item assignment: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSplit retrieves a split by ID, including all shares and items.
func (s *SQLiteStore) GetSplit(ctx context.Context, splitID string) (*models.BillSplit, error) {
	split := &models.BillSplit{}
	var method string
	var groupID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, description, total, method, created_by, paid_by, group_id, created_at
		 FROM splits WHERE id = ?`,
		splitID,
	).Scan(&split.ID, &split.Description, &split.TotalAmount, &method,
		&split.CreatedBy, &split.PaidBy, &groupID, &split.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("split %s: %w", splitID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split: %w", err)
	}
	if split.Method, err = models.ParseSplitMethod(method); err != nil {
		return nil, fmt.Errorf("failed to parse split method: %w", err)
	}
	if groupID.Valid {
		split.GroupID = groupID.String
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT participant, amount, remaining, settled FROM shares
		 WHERE split_id = ? ORDER BY rowid`,
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		share := models.Share{SplitID: splitID}
		if err := rows.Scan(&share.Participant, &share.Amount, &share.Remaining, &share.Settled); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		split.Shares = append(split.Shares, share)
		split.Participants = append(split.Participants, share.Participant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx,
		"SELECT id, description, amount FROM items WHERE split_id = ?",
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item models.SplitItem
		if err := itemRows.Scan(&item.ID, &item.Description, &item.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}

		assignRows, err := s.db.QueryContext(ctx,
			"SELECT participant FROM item_assignments WHERE item_id = ? ORDER BY participant",
			item.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to get item assignments: %w", err)
		}
		for assignRows.Next() {
			var participant string
			if err := assignRows.Scan(&participant); err != nil {
				assignRows.Close()
				return nil, fmt.Errorf("failed to scan assignment: %w", err)
			}
			item.AssignedTo = append(item.AssignedTo, participant)
		}
		assignRows.Close()
		if err := assignRows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate assignments: %w", err)
		}

		split.Items = append(split.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return split, nil
}

// DeleteSplit removes a split; shares and items cascade. Settlements remain.
func (s *SQLiteStore) DeleteSplit(ctx context.Context, splitID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM splits WHERE id = ?", splitID)
	if err != nil {
		return fmt.Errorf("failed to delete split: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("split %s: %w", splitID, storage.ErrNotFound)
	}
	return nil
}

// ListOpenShares returns every unsettled share joined with its split's
// payer, optionally scoped to a group. Shares held by the payer themselves
// carry no debt and are excluded.
func (s *SQLiteStore) ListOpenShares(ctx context.Context, groupID string) ([]storage.OpenShare, error) {
	query := `SELECT sh.split_id, sh.participant, sp.paid_by, COALESCE(sp.group_id, ''), sh.remaining
		  FROM shares sh JOIN splits sp ON sh.split_id = sp.id
		  WHERE sh.settled = 0 AND sh.participant != sp.paid_by`
	args := []any{}
	if groupID != "" {
		query += " AND sp.group_id = ?"
		args = append(args, groupID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list open shares: %w", err)
	}
	defer rows.Close()

	var shares []storage.OpenShare
	for rows.Next() {
		var share storage.OpenShare
		if err := rows.Scan(&share.SplitID, &share.Participant, &share.PaidBy, &share.GroupID, &share.Remaining); err != nil {
			return nil, fmt.Errorf("failed to scan open share: %w", err)
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate open shares: %w", err)
	}
	return shares, nil
}

// SettleShares applies a payment in a single transaction so concurrent
// settlements between the same pair cannot double-apply. Shares are consumed
// smallest-remaining first; the last touched share may be left partially
// paid.
func (s *SQLiteStore) SettleShares(ctx context.Context, fromUser, toUser, groupID string, amount float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT sh.split_id, sh.remaining
		  FROM shares sh JOIN splits sp ON sh.split_id = sp.id
		  WHERE sh.settled = 0 AND sh.participant = ? AND sp.paid_by = ?`
	args := []any{fromUser, toUser}
	if groupID != "" {
		query += " AND sp.group_id = ?"
		args = append(args, groupID)
	}
	query += " ORDER BY sh.remaining ASC, sh.split_id ASC"

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query outstanding shares: %w", err)
	}

	type openRow struct {
		splitID   string
		remaining float64
	}
	var open []openRow
	var outstanding float64
	for rows.Next() {
		var r openRow
		if err := rows.Scan(&r.splitID, &r.remaining); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan outstanding share: %w", err)
		}
		open = append(open, r)
		outstanding += r.remaining
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate outstanding shares: %w", err)
	}

	if amount > outstanding+paiseDust {
		return fmt.Errorf("payment of %.2f against %.2f outstanding: %w",
			amount, outstanding, storage.ErrInsufficientDebt)
	}

	left := amount
	for _, r := range open {
		if left <= paiseDust {
			break
		}
		if left >= r.remaining-paiseDust {
			// Share fully consumed.
			_, err = tx.ExecContext(ctx,
				"UPDATE shares SET remaining = 0, settled = 1 WHERE split_id = ? AND participant = ?",
				r.splitID, fromUser,
			)
			left -= r.remaining
		} else {
			_, err = tx.ExecContext(ctx,
				"UPDATE shares SET remaining = remaining - ? WHERE split_id = ? AND participant = ?",
				left, r.splitID, fromUser,
			)
			left = 0
		}
		if err != nil {
			return fmt.Errorf("failed to update share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// generateDescription creates an auto-generated description from
// participants.
func generateDescription(participants []string) string {
	if len(participants) == 0 {
		return fmt.Sprintf("Split - %s", time.Now().Format("Jan 2, 2006"))
	}
	if len(participants) <= 3 {
		return fmt.Sprintf("Split with %s", strings.Join(participants, ", "))
	}
	return fmt.Sprintf("Split with %s and %d others",
		strings.Join(participants[:2], ", "),
		len(participants)-2,
	)
}
