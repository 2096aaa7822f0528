package leave

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

func (s *Service) BalancesForEmployeeYear(ctx context.Context, employeeID, year string) ([]Balance, error) {
	rows, err := s.Store.DB.Query(ctx, `
    SELECT `+balanceColumns+`
    FROM leave_balances
    WHERE employee_id = $1 AND year = $2
    ORDER BY leave_type_id
  `, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []Balance
	for rows.Next() {
		balance, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}
	return balances, rows.Err()
}

func (s *Service) BalanceByType(ctx context.Context, employeeID, leaveTypeID, year string) (Balance, error) {
	balance, err := scanBalance(s.Store.DB.QueryRow(ctx, `
    SELECT `+balanceColumns+`
    FROM leave_balances
    WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
  `, employeeID, leaveTypeID, year))
	if errors.Is(err, pgx.ErrNoRows) {
		return Balance{}, ErrBalanceNotFound
	}
	return balance, err
}

func (s *Service) GetBalance(ctx context.Context, id string) (Balance, error) {
	balance, err := scanBalance(s.Store.DB.QueryRow(ctx, `
    SELECT `+balanceColumns+`
    FROM leave_balances
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Balance{}, ErrBalanceNotFound
	}
	return balance, err
}

// CloseBalance is terminal: a closed balance accepts no further mutation.
// Outstanding pending requests against it are left alone; they fail their own
// open-balance guard at decision time.
func (s *Service) CloseBalance(ctx context.Context, id string) error {
	now := s.Now()
	return s.Txn.InTx(ctx, func(ctx context.Context, tx TxStore) error {
		balance, err := tx.GetBalance(ctx, id)
		if err != nil {
			return err
		}
		if balance.Status == BalanceClosed {
			return ErrBalanceClosed
		}
		ok, err := tx.CloseBalance(ctx, id, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrWriteFailed
		}
		return nil
	})
}

// Encash converts remaining days to pay, capped by the policy encashment
// limit for the year.
func (s *Service) Encash(ctx context.Context, balanceID string, days decimal.Decimal, remarks string) error {
	if !days.IsPositive() {
		return ErrInvalidDays
	}
	now := s.Now()
	return s.Txn.InTx(ctx, func(ctx context.Context, tx TxStore) error {
		balance, err := tx.GetBalance(ctx, balanceID)
		if err != nil {
			return err
		}
		if balance.Status != BalanceOpen {
			return ErrBalanceClosed
		}
		policy, err := tx.GetPolicy(ctx, balance.PolicyID)
		if err != nil {
			return err
		}
		if balance.Encashed.Add(days).GreaterThan(policy.EncashLimit) {
			return ErrEncashLimitExceeded
		}
		if balance.Remaining.LessThan(days) {
			return ErrInsufficientBalance
		}

		ok, err := tx.ApplyBalanceDelta(ctx, BalanceDelta{
			BalanceID:         balanceID,
			Encashed:          days,
			Remaining:         days.Neg(),
			ExpectedRemaining: balance.Remaining,
			At:                now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return ErrBalanceConflict
		}

		if remarks == "" {
			remarks = fmt.Sprintf("%s days encashed", days.String())
		}
		_, err = tx.InsertTransaction(ctx, Transaction{
			BalanceID: balanceID,
			Type:      TxnEncashment,
			Days:      days.Neg(),
			Remarks:   remarks,
		})
		return err
	})
}

// Adjust applies a manual signed correction. Credits raise earned, debits
// raise used, so the snapshot invariant keeps holding bucket by bucket.
func (s *Service) Adjust(ctx context.Context, balanceID string, days decimal.Decimal, reason string) error {
	if days.IsZero() {
		return ErrInvalidDays
	}
	if strings.TrimSpace(reason) == "" {
		return ErrRemarksRequired
	}

	now := s.Now()
	return s.Txn.InTx(ctx, func(ctx context.Context, tx TxStore) error {
		balance, err := tx.GetBalance(ctx, balanceID)
		if err != nil {
			return err
		}
		if balance.Status != BalanceOpen {
			return ErrBalanceClosed
		}

		delta := BalanceDelta{
			BalanceID:         balanceID,
			Remaining:         days,
			ExpectedRemaining: balance.Remaining,
			At:                now,
		}
		if days.IsPositive() {
			delta.Earned = days
		} else {
			if balance.Remaining.LessThan(days.Neg()) {
				return ErrInsufficientBalance
			}
			delta.Used = days.Neg()
		}

		ok, err := tx.ApplyBalanceDelta(ctx, delta)
		if err != nil {
			return err
		}
		if !ok {
			return ErrBalanceConflict
		}

		_, err = tx.InsertTransaction(ctx, Transaction{
			BalanceID: balanceID,
			Type:      TxnAdjustment,
			Days:      days,
			Remarks:   reason,
		})
		return err
	})
}

func (s *Service) ListTransactions(ctx context.Context, balanceID string) ([]Transaction, error) {
	rows, err := s.Store.DB.Query(ctx, `
    SELECT id, balance_id, txn_type, days, COALESCE(remarks, ''), created_at, active
    FROM leave_transactions
    WHERE balance_id = $1
    ORDER BY created_at
  `, balanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []Transaction
	for rows.Next() {
		var txn Transaction
		if err := rows.Scan(&txn.ID, &txn.BalanceID, &txn.Type, &txn.Days, &txn.Remarks, &txn.CreatedAt, &txn.Active); err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func (s *Service) GetRequest(ctx context.Context, id string) (Request, error) {
	req, err := scanRequest(s.Store.DB.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrRequestNotFound
	}
	return req, err
}

func (s *Service) ListRequests(ctx context.Context, employeeID, status string, limit, offset int) ([]Request, error) {
	query := `
    SELECT ` + requestColumns + `
    FROM leave_requests
    WHERE 1=1
  `
	args := []any{}
	if employeeID != "" {
		args = append(args, employeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	args = append(args, limit, offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.Store.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
