package sqlite

import (
	"context"
	"fmt"

	"spendtrack/internal/models"
)

// ReplaceLeaderboard swaps the snapshot inside a single transaction: clear,
// then insert. A reader either sees the previous snapshot or the new one,
// never a half-replaced table, and a failed recompute leaves the old snapshot
// untouched.
func (s *SQLiteStore) ReplaceLeaderboard(ctx context.Context, entries []models.LeaderboardEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM leaderboard"); err != nil {
		return fmt.Errorf("failed to clear leaderboard: %w", err)
	}

	for _, entry := range entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO leaderboard (rank, user_id, name, email, age, total_spending)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			entry.Rank, entry.UserID, entry.Name, entry.Email, entry.Age, entry.TotalSpending.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert leaderboard entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit leaderboard: %w", err)
	}
	return nil
}

// ListLeaderboard returns the snapshot ordered by rank ascending.
func (s *SQLiteStore) ListLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rank, user_id, name, email, age, total_spending
		 FROM leaderboard ORDER BY rank ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		if err := rows.Scan(&entry.Rank, &entry.UserID, &entry.Name, &entry.Email, &entry.Age, &entry.TotalSpending); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}
	return entries, nil
}
