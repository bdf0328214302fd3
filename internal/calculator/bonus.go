// Package calculator holds the pure business rules: bonus-point accrual and
// age bucketing. No I/O, no side effects.
package calculator

import "github.com/shopspring/decimal"

var (
	// QualifyingThreshold is the minimum total spending for the loyalty
	// program: one base point at $1,499.
	QualifyingThreshold = decimal.NewFromInt(1499)

	// bonusStep is the additional spending per extra point beyond the
	// threshold.
	bonusStep = decimal.NewFromInt(2000)
)

// BonusPoints maps a total spending figure to loyalty points:
//
//	total < 1499:  0 (not eligible)
//	total >= 1499: 1 + floor((total - 1499) / 2000)
//
// Callers are responsible for excluding negative inputs.
func BonusPoints(total decimal.Decimal) int {
	if total.LessThan(QualifyingThreshold) {
		return 0
	}
	extra := total.Sub(QualifyingThreshold).Div(bonusStep).Floor()
	return 1 + int(extra.IntPart())
}
