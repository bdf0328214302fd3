package sqlite

import (
	"context"
	"fmt"

	"spendtrack/internal/models"
	"spendtrack/internal/storage"
)

// CreateHighSpender inserts a loyalty ledger row. The primary key on user_id
// rejects a second admission; that violation surfaces as storage.ErrDuplicate
// so the check-then-insert race never overwrites or crashes.
func (s *SQLiteStore) CreateHighSpender(ctx context.Context, hs *models.HighSpender) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO high_spenders (user_id, total_spending, bonus_points) VALUES (?, ?, ?)",
		hs.UserID, hs.TotalSpending.String(), hs.BonusPoints,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("high spender %d: %w", hs.UserID, storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert high spender: %w", err)
	}
	return nil
}

// HighSpenderExists reports whether the user already has a loyalty row.
func (s *SQLiteStore) HighSpenderExists(ctx context.Context, userID int64) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM high_spenders WHERE user_id = ?",
		userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check high spender existence: %w", err)
	}
	return count > 0, nil
}

// ListHighSpenders returns all loyalty rows. No ordering contract.
func (s *SQLiteStore) ListHighSpenders(ctx context.Context) ([]models.HighSpender, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, total_spending, bonus_points FROM high_spenders",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list high spenders: %w", err)
	}
	defer rows.Close()

	var spenders []models.HighSpender
	for rows.Next() {
		var hs models.HighSpender
		if err := rows.Scan(&hs.UserID, &hs.TotalSpending, &hs.BonusPoints); err != nil {
			return nil, fmt.Errorf("failed to scan high spender: %w", err)
		}
		spenders = append(spenders, hs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate high spenders: %w", err)
	}
	return spenders, nil
}
