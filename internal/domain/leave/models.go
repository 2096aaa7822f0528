package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type YearConfig struct {
	ID          string    `json:"id"`
	Year        string    `json:"year"`
	CutoffStart time.Time `json:"cutoffStart"`
	CutoffEnd   time.Time `json:"cutoffEnd"`
	Remarks     string    `json:"remarks"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Policy struct {
	ID                string          `json:"id"`
	LeaveTypeID       string          `json:"leaveTypeId"`
	AnnualEntitlement decimal.Decimal `json:"annualEntitlement"`
	CarryLimit        decimal.Decimal `json:"carryOverLimit"`
	EncashLimit       decimal.Decimal `json:"encashLimit"`
	CycleYears        int             `json:"cycleLengthYears"`
	EffectiveDate     time.Time       `json:"effectiveDate"`
	ExpiryDate        *time.Time      `json:"expiryDate,omitempty"`
	Status            string          `json:"status"`
	MinServiceMonths  int             `json:"minimumServiceMonths"`
	AllowedStatuses   []string        `json:"allowedEmployeeStatuses"`
	CreatedAt         time.Time       `json:"createdAt"`
}

type Balance struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employeeId"`
	LeaveTypeID     string          `json:"leaveTypeId"`
	PolicyID        string          `json:"policyId"`
	Year            string          `json:"year"`
	Beginning       decimal.Decimal `json:"beginningBalance"`
	Earned          decimal.Decimal `json:"earned"`
	Used            decimal.Decimal `json:"used"`
	CarriedOver     decimal.Decimal `json:"carriedOver"`
	Encashed        decimal.Decimal `json:"encashed"`
	Remaining       decimal.Decimal `json:"remaining"`
	LastTransaction *time.Time      `json:"lastTransactionDate,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Consistent reports whether the snapshot satisfies
// remaining = beginning + earned + carriedOver - used - encashed.
func (b Balance) Consistent() bool {
	credits := b.Beginning.Add(b.Earned).Add(b.CarriedOver)
	debits := b.Used.Add(b.Encashed)
	return b.Remaining.Equal(credits.Sub(debits))
}

type Transaction struct {
	ID        string          `json:"id"`
	BalanceID string          `json:"balanceId"`
	Type      string          `json:"transactionType"`
	Days      decimal.Decimal `json:"days"`
	Remarks   string          `json:"remarks"`
	CreatedAt time.Time       `json:"createdAt"`
	Active    bool            `json:"active"`
}

type Request struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employeeId"`
	BalanceID  string          `json:"balanceId"`
	StartDate  time.Time       `json:"startDate"`
	EndDate    time.Time       `json:"endDate"`
	TotalDays  decimal.Decimal `json:"totalDays"`
	Status     string          `json:"status"`
	ApproverID string          `json:"approverId,omitempty"`
	Remarks    string          `json:"remarks,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	DecidedAt  *time.Time      `json:"decidedAt,omitempty"`
}
