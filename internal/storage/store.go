// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"spendtrack/internal/models"
)

// Sentinel errors returned by Store implementations. Callers distinguish them
// with errors.Is; anything else is a storage failure.
var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a uniqueness constraint was violated.
	ErrDuplicate = errors.New("already exists")
)

// Store defines the interface for the spending ledger and its derived tables.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user. Returns ErrDuplicate if a user with
	// the same ID already exists.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID. Returns ErrNotFound if absent.
	GetUser(ctx context.Context, userID int64) (*models.User, error)

	// AddSpending appends a spending entry to the ledger.
	AddSpending(ctx context.Context, entry *models.SpendingEntry) error

	// TotalSpending returns the live sum over a user's spending entries,
	// zero if the user has none.
	TotalSpending(ctx context.Context, userID int64) (decimal.Decimal, error)

	// SpendingRecords returns every spending entry joined with its owner's
	// profile, the raw input of the aggregation engine.
	SpendingRecords(ctx context.Context) ([]models.SpendingRecord, error)

	// CreateHighSpender inserts a loyalty ledger row. Returns ErrDuplicate
	// if the user already has one; the row is never overwritten.
	CreateHighSpender(ctx context.Context, hs *models.HighSpender) error

	// HighSpenderExists reports whether the user already has a loyalty row.
	HighSpenderExists(ctx context.Context, userID int64) (bool, error)

	// ListHighSpenders returns all loyalty rows in no particular order.
	ListHighSpenders(ctx context.Context) ([]models.HighSpender, error)

	// ReplaceLeaderboard atomically swaps the leaderboard snapshot for the
	// given entries. Concurrent readers observe either the old or the new
	// snapshot, never a mix.
	ReplaceLeaderboard(ctx context.Context, entries []models.LeaderboardEntry) error

	// ListLeaderboard returns the snapshot ordered by rank ascending.
	ListLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)

	// Close releases any resources held by the store.
	Close() error
}
