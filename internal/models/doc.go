// Package models defines the core domain models for the spending tracker.
//
// # Models
//
//   - User: a registered customer, created once and immutable thereafter
//   - SpendingEntry: one per-year spending record for a user (append-only)
//   - HighSpender: the loyalty-program ledger row, written at most once per user
//   - LeaderboardEntry: one row of the top-spenders snapshot
//   - UserView: a user together with their live spending total
//   - SpendingRecord: a joined user+entry row fed to the aggregation engine
//
// # Design notes
//
// Money amounts use decimal.Decimal throughout so that bonus-point accrual and
// aggregate means are exact. HighSpender.TotalSpending is the figure claimed at
// admission time and is NOT kept in sync with the spending ledger; UserView
// carries the live sum. The divergence is intentional.
package models
