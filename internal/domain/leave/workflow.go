package leave

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Workflow drives the leave request state machine. Every operation runs as a
// single atomic unit against the request, its balance and the ledger.
type Workflow struct {
	Store Storage
	Now   func() time.Time
}

func NewWorkflow(store Storage) *Workflow {
	return &Workflow{Store: store, Now: time.Now}
}

type SubmitCommand struct {
	EmployeeID string
	BalanceID  string
	StartDate  time.Time
	EndDate    time.Time
	Remarks    string
}

// Submit files a new request in pending state. Sufficiency is checked at
// filing time and again at approval, since the balance may move in between.
func (w *Workflow) Submit(ctx context.Context, cmd SubmitCommand) (Request, error) {
	totalDays, err := CalculateDays(cmd.StartDate, cmd.EndDate)
	if err != nil {
		return Request{}, err
	}
	if !totalDays.IsPositive() {
		return Request{}, ErrInvalidDays
	}

	var out Request
	err = w.Store.InTx(ctx, func(ctx context.Context, tx TxStore) error {
		balance, err := tx.GetBalance(ctx, cmd.BalanceID)
		if err != nil {
			return err
		}
		if balance.Status != BalanceOpen {
			return ErrBalanceClosed
		}
		if balance.EmployeeID != cmd.EmployeeID {
			return ErrBalanceMismatch
		}
		if balance.Remaining.LessThan(totalDays) {
			return ErrInsufficientBalance
		}

		out = Request{
			EmployeeID: cmd.EmployeeID,
			BalanceID:  cmd.BalanceID,
			StartDate:  cmd.StartDate,
			EndDate:    cmd.EndDate,
			TotalDays:  totalDays,
			Status:     StatusPending,
			Remarks:    cmd.Remarks,
		}
		id, err := tx.InsertRequest(ctx, out)
		if err != nil {
			return err
		}
		out.ID = id
		return nil
	})
	return out, err
}

// Approve transitions a pending request to approved and deducts its days from
// the balance, appending a ledger entry. The deduction is a compare-and-set on
// remaining; ErrBalanceConflict means another writer got there first and the
// whole approval rolled back.
func (w *Workflow) Approve(ctx context.Context, requestID, approverID, remarks string) (Request, error) {
	now := w.Now()
	var out Request
	err := w.Store.InTx(ctx, func(ctx context.Context, tx TxStore) error {
		req, err := tx.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != StatusPending {
			return ErrInvalidState
		}

		balance, err := tx.GetBalance(ctx, req.BalanceID)
		if err != nil {
			return err
		}
		if balance.Status != BalanceOpen {
			return ErrBalanceClosed
		}
		if balance.Remaining.LessThan(req.TotalDays) {
			return ErrInsufficientBalance
		}

		ok, err := tx.UpdateRequestStatus(ctx, requestID, StatusApproved, approverID, remarks, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrWriteFailed
		}

		ok, err = tx.ApplyBalanceDelta(ctx, BalanceDelta{
			BalanceID:         balance.ID,
			Used:              req.TotalDays,
			Remaining:         req.TotalDays.Neg(),
			ExpectedRemaining: balance.Remaining,
			At:                now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return ErrBalanceConflict
		}

		if _, err := tx.InsertTransaction(ctx, Transaction{
			BalanceID: balance.ID,
			Type:      TxnRequest,
			Days:      req.TotalDays.Neg(),
			Remarks:   fmt.Sprintf("leave approved for %s to %s", req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02")),
		}); err != nil {
			return err
		}

		out = req
		out.Status = StatusApproved
		out.ApproverID = approverID
		out.Remarks = remarks
		out.DecidedAt = &now
		return nil
	})
	return out, err
}

// Reject transitions a pending request to rejected. Rejection never touches
// the balance or the ledger, but always requires a stated reason.
func (w *Workflow) Reject(ctx context.Context, requestID, approverID, remarks string) (Request, error) {
	if strings.TrimSpace(remarks) == "" {
		return Request{}, ErrRemarksRequired
	}

	now := w.Now()
	var out Request
	err := w.Store.InTx(ctx, func(ctx context.Context, tx TxStore) error {
		req, err := tx.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != StatusPending {
			return ErrInvalidState
		}

		ok, err := tx.UpdateRequestStatus(ctx, requestID, StatusRejected, approverID, remarks, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrWriteFailed
		}

		out = req
		out.Status = StatusRejected
		out.ApproverID = approverID
		out.Remarks = remarks
		out.DecidedAt = &now
		return nil
	})
	return out, err
}

// Cancel lets the requesting employee withdraw a request. Cancelling a
// pending request has no ledger effect; cancelling an approved one restores
// the deducted days and appends a positive reversal entry.
func (w *Workflow) Cancel(ctx context.Context, requestID, employeeID string) (Request, error) {
	now := w.Now()
	var out Request
	err := w.Store.InTx(ctx, func(ctx context.Context, tx TxStore) error {
		req, err := tx.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.EmployeeID != employeeID {
			return ErrNotRequestOwner
		}

		switch req.Status {
		case StatusPending:
			ok, err := tx.UpdateRequestStatus(ctx, requestID, StatusCancelled, "", "cancelled by employee", now)
			if err != nil {
				return err
			}
			if !ok {
				return ErrWriteFailed
			}

		case StatusApproved:
			balance, err := tx.GetBalance(ctx, req.BalanceID)
			if err != nil {
				return err
			}
			if balance.Status != BalanceOpen {
				return ErrBalanceClosed
			}

			ok, err := tx.UpdateRequestStatus(ctx, requestID, StatusCancelled, "", "cancelled by employee", now)
			if err != nil {
				return err
			}
			if !ok {
				return ErrWriteFailed
			}

			ok, err = tx.ApplyBalanceDelta(ctx, BalanceDelta{
				BalanceID:         balance.ID,
				Used:              req.TotalDays.Neg(),
				Remaining:         req.TotalDays,
				ExpectedRemaining: balance.Remaining,
				At:                now,
			})
			if err != nil {
				return err
			}
			if !ok {
				return ErrBalanceConflict
			}

			if _, err := tx.InsertTransaction(ctx, Transaction{
				BalanceID: balance.ID,
				Type:      TxnRequest,
				Days:      req.TotalDays,
				Remarks:   fmt.Sprintf("approved leave cancelled, %s days restored", req.TotalDays.String()),
			}); err != nil {
				return err
			}

		default:
			return fmt.Errorf("%w: %s request cannot be cancelled", ErrInvalidState, req.Status)
		}

		out = req
		out.Status = StatusCancelled
		out.DecidedAt = &now
		return nil
	})
	return out, err
}
