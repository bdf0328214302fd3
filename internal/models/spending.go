package models

import "github.com/shopspring/decimal"

// SpendingEntry is a single per-year spending record for a user. Entries are
// append-only; a user may have any number of them (one per purchase/period).
type SpendingEntry struct {
	UserID int64
	Amount decimal.Decimal // always >= 0
	Year   int
}

// SpendingRecord is one spending entry joined with its owner's profile.
// The aggregation engine consumes these rows.
type SpendingRecord struct {
	UserID int64
	Name   string
	Email  string
	Age    int
	Amount decimal.Decimal
	Year   int
}
