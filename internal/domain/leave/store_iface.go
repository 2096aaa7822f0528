package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceDelta describes one conditional mutation of a balance snapshot.
// Every field is additive; ExpectedRemaining makes the write a compare-and-set
// so concurrent approvals cannot both deduct from the same reading.
type BalanceDelta struct {
	BalanceID         string
	Earned            decimal.Decimal
	Used              decimal.Decimal
	Encashed          decimal.Decimal
	Remaining         decimal.Decimal
	ExpectedRemaining decimal.Decimal
	At                time.Time
}

// TxStore is the transaction-scoped persistence surface of the leave core.
// Lookups return the package sentinel errors when rows are absent.
type TxStore interface {
	GetPolicy(ctx context.Context, id string) (Policy, error)
	UpdatePolicyStatus(ctx context.Context, id, status string) (bool, error)
	ActivePolicies(ctx context.Context) ([]Policy, error)

	GetRequest(ctx context.Context, id string) (Request, error)
	InsertRequest(ctx context.Context, req Request) (string, error)
	UpdateRequestStatus(ctx context.Context, id, status, approverID, remarks string, decidedAt time.Time) (bool, error)

	GetBalance(ctx context.Context, id string) (Balance, error)
	FindBalance(ctx context.Context, employeeID, leaveTypeID, year string) (Balance, error)
	InsertBalance(ctx context.Context, balance Balance) (string, error)
	CloseBalance(ctx context.Context, id string, at time.Time) (bool, error)
	ApplyBalanceDelta(ctx context.Context, delta BalanceDelta) (bool, error)

	InsertTransaction(ctx context.Context, txn Transaction) (string, error)

	ListEmployeeIDs(ctx context.Context) ([]string, error)
}

// Storage owns the atomic unit boundary: fn either commits as a whole or the
// transaction rolls back on any returned error.
type Storage interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx TxStore) error) error
}

// TypeCatalog is the leave type collaborator consumed when creating policies.
type TypeCatalog interface {
	LeaveTypeExists(ctx context.Context, id string) (bool, error)
}

// EmployeeInfo carries the directory fields the eligibility predicate needs.
type EmployeeInfo struct {
	HireDate         time.Time
	EmploymentStatus string
}

// EmployeeDirectory is the employee master-record collaborator.
type EmployeeDirectory interface {
	FindEmployee(ctx context.Context, id string) (EmployeeInfo, error)
}
