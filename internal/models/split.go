package models

import "fmt"

// SplitMethod determines how a bill's total is divided among participants.
// It is a closed enum: unknown strings are rejected by ParseSplitMethod
// rather than surfacing later as an unmatched case.
type SplitMethod int

const (
	// SplitEqual divides the total evenly among all participants.
	SplitEqual SplitMethod = iota

	// SplitPercentage divides the total by per-participant percentage
	// weights that must sum to 100.
	SplitPercentage

	// SplitCustom uses caller-supplied per-participant amounts that must
	// sum to the total.
	SplitCustom

	// SplitByItem divides each line item equally among its assignees; a
	// participant's share is the sum of their item sub-shares.
	SplitByItem
)

// String returns the stable wire/storage name for the method.
func (m SplitMethod) String() string {
	switch m {
	case SplitEqual:
		return "equal"
	case SplitPercentage:
		return "percentage"
	case SplitCustom:
		return "custom"
	case SplitByItem:
		return "by_item"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// ParseSplitMethod converts a stored or wire name into a SplitMethod.
func ParseSplitMethod(s string) (SplitMethod, error) {
	switch s {
	case "equal":
		return SplitEqual, nil
	case "percentage":
		return SplitPercentage, nil
	case "custom":
		return SplitCustom, nil
	case "by_item":
		return SplitByItem, nil
	default:
		return 0, fmt.Errorf("unknown split method %q", s)
	}
}

// BillSplit represents a shared expense divided among participants.
// A split is immutable once created except for the settled state of its
// shares; only the creator may delete it.
type BillSplit struct {
	// ID is the unique identifier for the split (UUID format).
	ID string

	// Description is the human-readable label for the expense.
	// Auto-generated from participants when the caller leaves it empty.
	Description string

	// TotalAmount is the full expense amount in rupees. Always positive.
	TotalAmount float64

	// Method records how the shares were computed.
	Method SplitMethod

	// Participants is the ordered list of user IDs splitting the expense.
	// No duplicates; includes CreatedBy.
	Participants []string

	// CreatedBy is the user who recorded the split. Only this user may
	// delete it.
	CreatedBy string

	// PaidBy is the user who fronted the money and is therefore owed by
	// every other participant. Distinct from CreatedBy: a user can record
	// a bill someone else paid. Defaults to CreatedBy when unset.
	PaidBy string

	// GroupID scopes the split to a group. Empty for ad hoc splits.
	GroupID string

	// Shares are the computed per-participant obligations. Their amounts
	// sum exactly to TotalAmount.
	Shares []Share

	// Items are the line items for by-item splits. Empty otherwise.
	Items []SplitItem

	// CreatedAt is the Unix timestamp when the split was created.
	CreatedAt int64
}

// Share is one participant's obligation within a split.
type Share struct {
	// SplitID is the split this share belongs to.
	SplitID string

	// Participant is the user ID that owes this share.
	Participant string

	// Amount is the originally computed obligation in rupees.
	Amount float64

	// Remaining is the unpaid portion. Starts equal to Amount and is
	// decremented by settlements; reaching zero marks the share settled.
	Remaining float64

	// Settled is true once Remaining has been driven to zero.
	Settled bool
}

// SplitItem is a single line item on a by-item split. The item's price is
// divided equally among its assignees.
type SplitItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// Description is the item label (e.g., "Masala Dosa").
	Description string

	// Amount is the item price in rupees.
	Amount float64

	// AssignedTo lists the participant user IDs sharing this item.
	AssignedTo []string
}
