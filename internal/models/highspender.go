package models

import "github.com/shopspring/decimal"

// HighSpender is a loyalty-program ledger row. At most one exists per user;
// a second admission attempt is rejected as a duplicate, never overwritten.
//
// TotalSpending is the value supplied at admission time, a point-in-time
// claim. It is not re-derived from the spending ledger afterwards.
type HighSpender struct {
	UserID        int64
	TotalSpending decimal.Decimal
	BonusPoints   int
}
