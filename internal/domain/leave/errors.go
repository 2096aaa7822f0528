package leave

import "errors"

var (
	ErrYearConfigNotFound = errors.New("leave year configuration not found")
	ErrLeaveTypeNotFound  = errors.New("leave type not found")
	ErrPolicyNotFound     = errors.New("leave policy not found")
	ErrBalanceNotFound    = errors.New("leave balance not found")
	ErrRequestNotFound    = errors.New("leave request not found")

	ErrInvalidState        = errors.New("invalid state for this operation")
	ErrPolicyRetired       = errors.New("retired policy cannot be activated")
	ErrBalanceClosed       = errors.New("leave balance is closed")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrRemarksRequired     = errors.New("remarks are required")
	ErrNotRequestOwner     = errors.New("only the requesting employee may cancel")
	ErrBalanceMismatch     = errors.New("balance does not belong to employee")
	ErrInvalidDateRange    = errors.New("end date must not precede start date")
	ErrInvalidDays         = errors.New("requested days must be positive")
	ErrEncashLimitExceeded = errors.New("encashment exceeds policy limit")

	ErrDuplicateYear = errors.New("leave year already configured")
	// ErrBalanceConflict is raised when the conditional balance update matches
	// no row because another writer changed remaining first. Callers retry
	// with a fresh read.
	ErrBalanceConflict = errors.New("leave balance was modified concurrently")

	ErrWriteFailed = errors.New("expected write did not apply")
)
