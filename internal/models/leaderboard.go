package models

import "github.com/shopspring/decimal"

// LeaderboardEntry is one row of the top-spenders snapshot. The whole table
// is disposable: every recomputation clears and replaces it.
type LeaderboardEntry struct {
	// Rank is dense, starting at 1 with no gaps.
	Rank int

	UserID        int64
	Name          string
	Email         string
	Age           int
	TotalSpending decimal.Decimal
}
