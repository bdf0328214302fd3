package models

import "github.com/shopspring/decimal"

// User represents a registered customer.
//
// Users are unique by ID and immutable once created: there is no update or
// delete path anywhere in the system.
type User struct {
	// ID is the caller-assigned numeric identifier.
	ID int64

	// Name is the customer's display name.
	Name string

	// Email is the customer's email address.
	Email string

	// Age in whole years, used for age-bucket statistics.
	Age int
}

// UserView is a user together with their live spending total, the sum over
// all SpendingEntry rows (zero if the user has none).
type UserView struct {
	User
	TotalSpending decimal.Decimal
}
