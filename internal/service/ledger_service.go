// Package service implements the engine's use cases on top of the storage
// layer: ledger writes, query accessors, aggregate recomputation, and
// high-spender admission.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"spendtrack/internal/models"
	"spendtrack/internal/stats"
	"spendtrack/internal/storage"
)

// LeaderboardSize is the number of rows kept in the top-spenders snapshot.
const LeaderboardSize = 100

// LedgerService handles spending submissions, query accessors, and derived
// statistics.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// CreateUser registers a new user. Users are immutable once created.
func (s *LedgerService) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID <= 0 {
		return fmt.Errorf("%w: user_id must be a positive integer", ErrInvalidInput)
	}
	if user.Name == "" || user.Email == "" {
		return fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return fmt.Errorf("%w: user %d already exists", ErrInvalidInput, user.ID)
		}
		slog.Error("CreateUser failed", "user_id", user.ID, "error", err)
		return err
	}
	slog.Info("User created", "user_id", user.ID, "age", user.Age)
	return nil
}

// AddSpending appends a spending entry to a user's ledger.
func (s *LedgerService) AddSpending(ctx context.Context, entry *models.SpendingEntry) error {
	if entry.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}
	if _, err := s.store.GetUser(ctx, entry.UserID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: %d", ErrUserNotFound, entry.UserID)
		}
		return err
	}
	if err := s.store.AddSpending(ctx, entry); err != nil {
		slog.Error("AddSpending failed", "user_id", entry.UserID, "error", err)
		return err
	}
	slog.Debug("Spending recorded", "user_id", entry.UserID, "amount", entry.Amount, "year", entry.Year)
	return nil
}

// GetUser returns a user together with their live spending total, the sum
// over the ledger at call time. This deliberately differs from the frozen
// total on a HighSpender row.
func (s *LedgerService) GetUser(ctx context.Context, userID int64) (*models.UserView, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrUserNotFound, userID)
		}
		return nil, err
	}

	total, err := s.store.TotalSpending(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.UserView{User: *user, TotalSpending: total}, nil
}

// AverageSpendingByAge computes the mean spending-entry amount per age
// bucket. Buckets without entries are absent from the result.
func (s *LedgerService) AverageSpendingByAge(ctx context.Context) (map[string]decimal.Decimal, error) {
	records, err := s.store.SpendingRecords(ctx)
	if err != nil {
		return nil, err
	}
	return stats.BucketAverages(records), nil
}

// RecomputeLeaderboard rebuilds the top-spenders snapshot from the ledger and
// replaces the stored one atomically.
func (s *LedgerService) RecomputeLeaderboard(ctx context.Context) error {
	records, err := s.store.SpendingRecords(ctx)
	if err != nil {
		return err
	}

	board := stats.ComputeLeaderboard(records, LeaderboardSize)
	if err := s.store.ReplaceLeaderboard(ctx, board); err != nil {
		slog.Error("RecomputeLeaderboard failed", "error", err)
		return err
	}
	slog.Info("Leaderboard recomputed", "entries", len(board))
	return nil
}

// ListHighSpenders returns the loyalty ledger. No ordering contract.
func (s *LedgerService) ListHighSpenders(ctx context.Context) ([]models.HighSpender, error) {
	return s.store.ListHighSpenders(ctx)
}

// ListLeaderboard returns the current snapshot ordered by rank.
func (s *LedgerService) ListLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	return s.store.ListLeaderboard(ctx)
}
