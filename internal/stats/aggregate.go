// Package stats is the aggregation engine: it turns raw spending records into
// age-bucketed averages and the ranked top-spenders leaderboard. All
// arithmetic is exact decimal; persistence is the caller's concern.
package stats

import (
	"sort"

	"github.com/shopspring/decimal"

	"spendtrack/internal/calculator"
	"spendtrack/internal/models"
)

// averagePrecision is the number of decimal places kept in bucket means.
const averagePrecision = 2

// BucketAverages computes the arithmetic mean of entry amounts per age bucket.
// Every spending entry contributes individually (a user with three entries
// counts three times), and buckets with no entries are absent from the result.
func BucketAverages(records []models.SpendingRecord) map[string]decimal.Decimal {
	type acc struct {
		sum   decimal.Decimal
		count int64
	}

	byBucket := make(map[string]*acc)
	for _, rec := range records {
		bucket := calculator.AgeBucket(rec.Age)
		a, ok := byBucket[bucket]
		if !ok {
			a = &acc{}
			byBucket[bucket] = a
		}
		a.sum = a.sum.Add(rec.Amount)
		a.count++
	}

	averages := make(map[string]decimal.Decimal, len(byBucket))
	for bucket, a := range byBucket {
		averages[bucket] = a.sum.DivRound(decimal.NewFromInt(a.count), averagePrecision)
	}
	return averages
}

// ComputeLeaderboard builds the ranked top-spenders snapshot: per-user totals
// over all spending entries, sorted by total descending with ties broken by
// ascending age, truncated to limit. Ranks are dense, starting at 1. Users
// without any spending entry do not appear.
func ComputeLeaderboard(records []models.SpendingRecord, limit int) []models.LeaderboardEntry {
	totals := make(map[int64]*models.LeaderboardEntry)
	for _, rec := range records {
		entry, ok := totals[rec.UserID]
		if !ok {
			entry = &models.LeaderboardEntry{
				UserID: rec.UserID,
				Name:   rec.Name,
				Email:  rec.Email,
				Age:    rec.Age,
			}
			totals[rec.UserID] = entry
		}
		entry.TotalSpending = entry.TotalSpending.Add(rec.Amount)
	}

	board := make([]models.LeaderboardEntry, 0, len(totals))
	for _, entry := range totals {
		board = append(board, *entry)
	}

	sort.Slice(board, func(i, j int) bool {
		if cmp := board[i].TotalSpending.Cmp(board[j].TotalSpending); cmp != 0 {
			return cmp > 0
		}
		if board[i].Age != board[j].Age {
			return board[i].Age < board[j].Age
		}
		// Stable output for identical totals and ages.
		return board[i].UserID < board[j].UserID
	})

	if limit > 0 && len(board) > limit {
		board = board[:limit]
	}
	for i := range board {
		board[i].Rank = i + 1
	}
	return board
}
