package models

// Settlement records a real payment between two users that cleared debt.
// Settlements are append-only: deleting a split never reverses the
// settlements already applied against it.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement was scoped to, if any.
	GroupID string

	// FromUserID is the debtor who paid.
	FromUserID string

	// ToUserID is the creditor who was paid.
	ToUserID string

	// Amount is the payment amount in rupees. Always positive.
	Amount float64

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// Note is an optional free-form description.
	Note string
}
