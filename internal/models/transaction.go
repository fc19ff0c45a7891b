package models

import (
	"fmt"
	"time"
)

// TransactionType distinguishes income from expense records.
type TransactionType int

const (
	// TypeExpense is money going out. Only expenses feed forecasts.
	TypeExpense TransactionType = iota

	// TypeIncome is money coming in.
	TypeIncome
)

// String returns the stable wire/storage name for the type.
func (t TransactionType) String() string {
	switch t {
	case TypeExpense:
		return "expense"
	case TypeIncome:
		return "income"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// ParseTransactionType converts a stored or wire name into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	switch s {
	case "expense":
		return TypeExpense, nil
	case "income":
		return TypeIncome, nil
	default:
		return 0, fmt.Errorf("unknown transaction type %q", s)
	}
}

// TransactionRecord is one income or expense event. Records are immutable
// once created except for category correction; the forecast engine never
// mutates them.
type TransactionRecord struct {
	// ID is the unique identifier for the record (UUID format).
	ID string

	// UserID owns the record.
	UserID string

	// Amount is the transaction amount in rupees. Always positive; the
	// direction comes from Type.
	Amount float64

	// Category is the spending category (e.g., "food", "travel"). Empty
	// when uncategorized.
	Category string

	// Type marks the record as income or expense.
	Type TransactionType

	// OccurredAt is when the transaction happened.
	OccurredAt time.Time
}

// Budget is a monthly spending limit for a user, optionally narrowed to a
// single category. An absent budget is a valid state: forecasts degrade to
// a no-limit result rather than failing.
type Budget struct {
	// UserID owns the budget.
	UserID string

	// Category narrows the limit to one category. Empty means the overall
	// monthly limit.
	Category string

	// MonthlyLimit is the spending ceiling in rupees for one calendar month.
	MonthlyLimit float64
}
