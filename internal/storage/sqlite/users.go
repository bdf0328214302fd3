package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"spendtrack/internal/models"
	"spendtrack/internal/storage"
)

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (user_id, name, email, age) VALUES (?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.Age,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("user %d: %w", user.ID, storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id, name, email, age FROM users WHERE user_id = ?",
		userID,
	).Scan(&user.ID, &user.Name, &user.Email, &user.Age)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// AddSpending appends a spending entry for a user.
func (s *SQLiteStore) AddSpending(ctx context.Context, entry *models.SpendingEntry) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO spending_entries (user_id, amount, year) VALUES (?, ?, ?)",
		entry.UserID, entry.Amount.String(), entry.Year,
	)
	if err != nil {
		return fmt.Errorf("failed to insert spending entry: %w", err)
	}
	return nil
}

// TotalSpending returns the sum over a user's spending entries, zero if none.
// Summing happens in Go so the result stays exact decimal.
func (s *SQLiteStore) TotalSpending(ctx context.Context, userID int64) (decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT amount FROM spending_entries WHERE user_id = ?",
		userID,
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query spending entries: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan amount: %w", err)
		}
		total = total.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to iterate spending entries: %w", err)
	}
	return total, nil
}

// SpendingRecords returns every spending entry joined with its owner.
func (s *SQLiteStore) SpendingRecords(ctx context.Context) ([]models.SpendingRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.user_id, u.name, u.email, u.age, e.amount, e.year
		FROM users u
		JOIN spending_entries e ON u.user_id = e.user_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query spending records: %w", err)
	}
	defer rows.Close()

	var records []models.SpendingRecord
	for rows.Next() {
		var rec models.SpendingRecord
		if err := rows.Scan(&rec.UserID, &rec.Name, &rec.Email, &rec.Age, &rec.Amount, &rec.Year); err != nil {
			return nil, fmt.Errorf("failed to scan spending record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate spending records: %w", err)
	}
	return records, nil
}
