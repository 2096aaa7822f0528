package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

const policyColumns = `id, leave_type_id, annual_entitlement, carry_over_limit, encash_limit,
    cycle_years, effective_date, expiry_date, status, min_service_months, allowed_statuses, created_at`

const balanceColumns = `id, employee_id, leave_type_id, policy_id, year, beginning, earned, used,
    carried_over, encashed, remaining, last_transaction_at, status, created_at`

const requestColumns = `id, employee_id, balance_id, start_date, end_date, total_days, status,
    COALESCE(approver_id::text, ''), COALESCE(remarks, ''), created_at, decided_at`

func scanPolicy(row pgx.Row) (Policy, error) {
	var p Policy
	err := row.Scan(&p.ID, &p.LeaveTypeID, &p.AnnualEntitlement, &p.CarryLimit, &p.EncashLimit,
		&p.CycleYears, &p.EffectiveDate, &p.ExpiryDate, &p.Status, &p.MinServiceMonths,
		&p.AllowedStatuses, &p.CreatedAt)
	return p, err
}

func scanBalance(row pgx.Row) (Balance, error) {
	var b Balance
	err := row.Scan(&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.PolicyID, &b.Year, &b.Beginning,
		&b.Earned, &b.Used, &b.CarriedOver, &b.Encashed, &b.Remaining, &b.LastTransaction,
		&b.Status, &b.CreatedAt)
	return b, err
}

func scanRequest(row pgx.Row) (Request, error) {
	var r Request
	err := row.Scan(&r.ID, &r.EmployeeID, &r.BalanceID, &r.StartDate, &r.EndDate, &r.TotalDays,
		&r.Status, &r.ApproverID, &r.Remarks, &r.CreatedAt, &r.DecidedAt)
	return r, err
}

func (t *txStore) GetPolicy(ctx context.Context, id string) (Policy, error) {
	policy, err := scanPolicy(t.db.QueryRow(ctx, `
    SELECT `+policyColumns+`
    FROM leave_policies
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Policy{}, ErrPolicyNotFound
	}
	return policy, err
}

func (t *txStore) UpdatePolicyStatus(ctx context.Context, id, status string) (bool, error) {
	tag, err := t.db.Exec(ctx, `
    UPDATE leave_policies SET status = $2 WHERE id = $1
  `, id, status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (t *txStore) ActivePolicies(ctx context.Context) ([]Policy, error) {
	rows, err := t.db.Query(ctx, `
    SELECT `+policyColumns+`
    FROM leave_policies
    WHERE status = $1
    ORDER BY effective_date DESC
  `, PolicyActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []Policy
	for rows.Next() {
		policy, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		policies = append(policies, policy)
	}
	return policies, rows.Err()
}

func (t *txStore) GetRequest(ctx context.Context, id string) (Request, error) {
	req, err := scanRequest(t.db.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrRequestNotFound
	}
	return req, err
}

func (t *txStore) InsertRequest(ctx context.Context, req Request) (string, error) {
	var id string
	err := t.db.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, balance_id, start_date, end_date, total_days, status, remarks)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, req.EmployeeID, req.BalanceID, req.StartDate, req.EndDate, req.TotalDays, req.Status, req.Remarks).Scan(&id)
	return id, err
}

func (t *txStore) UpdateRequestStatus(ctx context.Context, id, status, approverID, remarks string, decidedAt time.Time) (bool, error) {
	tag, err := t.db.Exec(ctx, `
    UPDATE leave_requests
    SET status = $2, approver_id = NULLIF($3, '')::uuid, remarks = $4, decided_at = $5
    WHERE id = $1
  `, id, status, approverID, remarks, decidedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (t *txStore) GetBalance(ctx context.Context, id string) (Balance, error) {
	balance, err := scanBalance(t.db.QueryRow(ctx, `
    SELECT `+balanceColumns+`
    FROM leave_balances
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Balance{}, ErrBalanceNotFound
	}
	return balance, err
}

func (t *txStore) FindBalance(ctx context.Context, employeeID, leaveTypeID, year string) (Balance, error) {
	balance, err := scanBalance(t.db.QueryRow(ctx, `
    SELECT `+balanceColumns+`
    FROM leave_balances
    WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
  `, employeeID, leaveTypeID, year))
	if errors.Is(err, pgx.ErrNoRows) {
		return Balance{}, ErrBalanceNotFound
	}
	return balance, err
}

func (t *txStore) InsertBalance(ctx context.Context, balance Balance) (string, error) {
	var id string
	err := t.db.QueryRow(ctx, `
    INSERT INTO leave_balances (employee_id, leave_type_id, policy_id, year, beginning, earned, used, carried_over, encashed, remaining, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id
  `, balance.EmployeeID, balance.LeaveTypeID, balance.PolicyID, balance.Year, balance.Beginning,
		balance.Earned, balance.Used, balance.CarriedOver, balance.Encashed, balance.Remaining,
		balance.Status).Scan(&id)
	return id, err
}

func (t *txStore) CloseBalance(ctx context.Context, id string, at time.Time) (bool, error) {
	tag, err := t.db.Exec(ctx, `
    UPDATE leave_balances
    SET status = $2, last_transaction_at = $3
    WHERE id = $1 AND status = $4
  `, id, BalanceClosed, at, BalanceOpen)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ApplyBalanceDelta is a compare-and-set write: it only applies when the
// balance is still open and remaining matches what the caller last read.
func (t *txStore) ApplyBalanceDelta(ctx context.Context, delta BalanceDelta) (bool, error) {
	tag, err := t.db.Exec(ctx, `
    UPDATE leave_balances
    SET earned = earned + $2,
        used = used + $3,
        encashed = encashed + $4,
        remaining = remaining + $5,
        last_transaction_at = $6
    WHERE id = $1 AND status = $7 AND remaining = $8
  `, delta.BalanceID, delta.Earned, delta.Used, delta.Encashed, delta.Remaining, delta.At,
		BalanceOpen, delta.ExpectedRemaining)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (t *txStore) InsertTransaction(ctx context.Context, txn Transaction) (string, error) {
	var id string
	err := t.db.QueryRow(ctx, `
    INSERT INTO leave_transactions (balance_id, txn_type, days, remarks)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, txn.BalanceID, txn.Type, txn.Days, txn.Remarks).Scan(&id)
	return id, err
}

func (t *txStore) ListEmployeeIDs(ctx context.Context) ([]string, error) {
	rows, err := t.db.Query(ctx, `
    SELECT id
    FROM employees
    WHERE employment_status <> 'terminated'
    ORDER BY id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
