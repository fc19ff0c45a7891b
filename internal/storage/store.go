// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/paisatrack/paisatrack/internal/models"
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientDebt is returned by SettleShares when the payment
	// amount exceeds the outstanding balance between the pair.
	ErrInsufficientDebt = errors.New("amount exceeds outstanding debt")
)

// OpenShare is one unsettled share joined with its split's payer and group:
// Participant owes PaidBy the Remaining amount.
type OpenShare struct {
	SplitID     string
	Participant string
	PaidBy      string
	GroupID     string
	Remaining   float64
}

// TransactionFilter narrows ListTransactions. Nil/zero fields are ignored.
type TransactionFilter struct {
	Category *string
	Type     *models.TransactionType
	From     time.Time
	To       time.Time
}

// Store defines the interface for persistence operations. This abstraction
// allows swapping storage backends (SQLite, PostgreSQL, etc.) without
// changing the service layer.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGroup persists a new group with its members.
	// The group.ID field will be populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its member list.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByMember retrieves every group the user belongs to.
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)

	// AddGroupMembers adds members to a group, ignoring existing ones.
	AddGroupMembers(ctx context.Context, groupID string, members []string) error

	// CreateSplit persists a split together with its shares and items in a
	// single transaction. The split.ID field will be populated by the store.
	CreateSplit(ctx context.Context, split *models.BillSplit) error

	// GetSplit retrieves a split with its shares and items.
	GetSplit(ctx context.Context, splitID string) (*models.BillSplit, error)

	// DeleteSplit removes a split; shares and items cascade. Settlements
	// already recorded against the split are untouched.
	DeleteSplit(ctx context.Context, splitID string) error

	// ListOpenShares returns every unsettled share, optionally scoped to a
	// group (empty groupID means all scopes). Shares where the participant
	// is the payer carry no debt and are excluded.
	ListOpenShares(ctx context.Context, groupID string) ([]OpenShare, error)

	// SettleShares applies a payment from fromUser to toUser atomically:
	// unsettled shares between the pair are consumed smallest-remaining
	// first, the last one possibly partially. Returns ErrInsufficientDebt
	// when amount exceeds the outstanding total; nothing is applied then.
	SettleShares(ctx context.Context, fromUser, toUser, groupID string, amount float64) error

	// CreateSettlement records an applied settlement.
	// The settlement.ID field will be populated by the store.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlementsByGroup retrieves all settlements for a group, newest
	// first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// CreateTransaction appends a transaction record.
	// The record.ID field will be populated by the store.
	CreateTransaction(ctx context.Context, record *models.TransactionRecord) error

	// ListTransactions retrieves a user's transactions matching the filter,
	// oldest first.
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]models.TransactionRecord, error)

	// UpdateTransactionCategory corrects a record's category. The record
	// must belong to userID.
	UpdateTransactionCategory(ctx context.Context, recordID, userID, category string) error

	// SetBudget creates or replaces a budget limit.
	SetBudget(ctx context.Context, budget *models.Budget) error

	// GetBudget retrieves the budget for a user and category (empty
	// category means the overall limit). Returns (nil, nil) when no budget
	// is configured: absence is a valid state, not an error.
	GetBudget(ctx context.Context, userID, category string) (*models.Budget, error)

	// Close releases any resources held by the store.
	Close() error
}
