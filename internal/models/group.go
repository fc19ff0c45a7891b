package models

// Group represents a reusable participant list (e.g., "Flatmates",
// "Goa Trip"). Splits and settlements can be scoped to a group, which
// narrows debt aggregation to that group's ledger.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group.
	Name string

	// CreatedBy is the user who created the group.
	CreatedBy string

	// Members is the list of member user IDs.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}
