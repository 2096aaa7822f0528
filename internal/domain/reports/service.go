package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"leavedesk/internal/domain/leave"
)

type Service struct {
	DB *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

type BalanceRow struct {
	BalanceID     string          `json:"balanceId"`
	EmployeeID    string          `json:"employeeId"`
	EmployeeName  string          `json:"employeeName"`
	LeaveTypeName string          `json:"leaveTypeName"`
	Year          string          `json:"year"`
	Beginning     decimal.Decimal `json:"beginningBalance"`
	Earned        decimal.Decimal `json:"earned"`
	Used          decimal.Decimal `json:"used"`
	CarriedOver   decimal.Decimal `json:"carriedOver"`
	Encashed      decimal.Decimal `json:"encashed"`
	Remaining     decimal.Decimal `json:"remaining"`
	Status        string          `json:"status"`
}

func (s *Service) BalanceSummary(ctx context.Context, year string) ([]BalanceRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT b.id, b.employee_id, e.first_name || ' ' || e.last_name, lt.name, b.year,
           b.beginning, b.earned, b.used, b.carried_over, b.encashed, b.remaining, b.status
    FROM leave_balances b
    JOIN employees e ON e.id = b.employee_id
    JOIN leave_types lt ON lt.id = b.leave_type_id
    WHERE b.year = $1
    ORDER BY e.last_name, e.first_name, lt.name
  `, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BalanceRow
	for rows.Next() {
		var row BalanceRow
		if err := rows.Scan(&row.BalanceID, &row.EmployeeID, &row.EmployeeName, &row.LeaveTypeName, &row.Year,
			&row.Beginning, &row.Earned, &row.Used, &row.CarriedOver, &row.Encashed, &row.Remaining, &row.Status); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

type DriftRow struct {
	BalanceID  string          `json:"balanceId"`
	EmployeeID string          `json:"employeeId"`
	Year       string          `json:"year"`
	LedgerNet  decimal.Decimal `json:"ledgerNet"`
	Drift      decimal.Decimal `json:"drift"`
	Consistent bool            `json:"consistent"`
}

// Reconcile folds each balance's ledger and reports snapshots that drifted
// from it, along with snapshots that break their own arithmetic invariant.
func (s *Service) Reconcile(ctx context.Context, year string) ([]DriftRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT b.id, b.employee_id, b.year, b.beginning, b.earned, b.used, b.carried_over,
           b.encashed, b.remaining, b.status, p.annual_entitlement,
           COALESCE((SELECT SUM(t.days) FROM leave_transactions t WHERE t.balance_id = b.id AND t.active), 0)
    FROM leave_balances b
    JOIN leave_policies p ON p.id = b.policy_id
    WHERE b.year = $1
  `, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DriftRow
	for rows.Next() {
		var balance leave.Balance
		var entitlement, ledgerNet decimal.Decimal
		if err := rows.Scan(&balance.ID, &balance.EmployeeID, &balance.Year, &balance.Beginning,
			&balance.Earned, &balance.Used, &balance.CarriedOver, &balance.Encashed,
			&balance.Remaining, &balance.Status, &entitlement, &ledgerNet); err != nil {
			return nil, err
		}
		out = append(out, DriftRow{
			BalanceID:  balance.ID,
			EmployeeID: balance.EmployeeID,
			Year:       balance.Year,
			LedgerNet:  ledgerNet,
			Drift:      LedgerDrift(balance, entitlement, ledgerNet),
			Consistent: balance.Consistent(),
		})
	}
	return out, rows.Err()
}

type UsageRow struct {
	LeaveTypeName string          `json:"leaveTypeName"`
	TotalDays     decimal.Decimal `json:"totalDays"`
}

func (s *Service) UsageByType(ctx context.Context, year string) ([]UsageRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT lt.name, COALESCE(SUM(b.used), 0)
    FROM leave_balances b
    JOIN leave_types lt ON lt.id = b.leave_type_id
    WHERE b.year = $1
    GROUP BY lt.name
    ORDER BY lt.name
  `, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UsageRow
	for rows.Next() {
		var row UsageRow
		if err := rows.Scan(&row.LeaveTypeName, &row.TotalDays); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

type StatementRow struct {
	Date    time.Time       `json:"date"`
	Type    string          `json:"type"`
	Days    decimal.Decimal `json:"days"`
	Remarks string          `json:"remarks"`
}

// Statement returns the ledger lines for one balance, oldest first, for the
// printable PDF statement.
func (s *Service) Statement(ctx context.Context, balanceID string) ([]StatementRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT created_at, txn_type, days, COALESCE(remarks, '')
    FROM leave_transactions
    WHERE balance_id = $1 AND active
    ORDER BY created_at
  `, balanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatementRow
	for rows.Next() {
		var row StatementRow
		if err := rows.Scan(&row.Date, &row.Type, &row.Days, &row.Remarks); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
