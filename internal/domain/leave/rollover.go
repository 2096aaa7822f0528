package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

type RolloverSummary struct {
	PoliciesProcessed int `json:"policiesProcessed"`
	BalancesOpened    int `json:"balancesOpened"`
	BalancesClosed    int `json:"balancesClosed"`
}

// OpenYearBalances opens one balance per (employee, leave type) for the new
// leave year, carrying over up to the policy limit from the previous year's
// balance and closing it. The whole run is one transaction: a failure on any
// policy or employee rolls back everything, so a retry starts clean.
func OpenYearBalances(ctx context.Context, store Storage, cfg YearConfig, previousYear string, now time.Time) (RolloverSummary, error) {
	var summary RolloverSummary

	err := store.InTx(ctx, func(ctx context.Context, tx TxStore) error {
		policies, err := tx.ActivePolicies(ctx)
		if err != nil {
			return err
		}
		employees, err := tx.ListEmployeeIDs(ctx)
		if err != nil {
			return err
		}

		seenTypes := map[string]bool{}
		for _, policy := range policies {
			// First active policy per type wins; duplicates are a
			// configuration smell worth logging, not failing over.
			if seenTypes[policy.LeaveTypeID] {
				slog.Warn("multiple active policies for leave type", "leaveTypeId", policy.LeaveTypeID, "policyId", policy.ID)
				continue
			}
			seenTypes[policy.LeaveTypeID] = true

			for _, employeeID := range employees {
				opened, closed, err := rolloverEmployee(ctx, tx, policy, employeeID, cfg.Year, previousYear, now)
				if err != nil {
					return err
				}
				if opened {
					summary.BalancesOpened++
				}
				if closed {
					summary.BalancesClosed++
				}
			}
			summary.PoliciesProcessed++
		}
		return nil
	})
	return summary, err
}

func rolloverEmployee(ctx context.Context, tx TxStore, policy Policy, employeeID, year, previousYear string, now time.Time) (opened, closed bool, err error) {
	if _, err := tx.FindBalance(ctx, employeeID, policy.LeaveTypeID, year); err == nil {
		return false, false, nil // already rolled over
	} else if !errors.Is(err, ErrBalanceNotFound) {
		return false, false, err
	}

	carried := decimal.Zero
	previous, err := tx.FindBalance(ctx, employeeID, policy.LeaveTypeID, previousYear)
	switch {
	case err == nil:
		if previous.Remaining.IsPositive() {
			carried = decimal.Min(previous.Remaining, policy.CarryLimit)
		}
		if previous.Status == BalanceOpen {
			ok, err := tx.CloseBalance(ctx, previous.ID, now)
			if err != nil {
				return false, false, err
			}
			closed = ok
		}
	case errors.Is(err, ErrBalanceNotFound):
		// first year for this employee and type
	default:
		return false, false, err
	}

	balance := Balance{
		EmployeeID:  employeeID,
		LeaveTypeID: policy.LeaveTypeID,
		PolicyID:    policy.ID,
		Year:        year,
		Beginning:   decimal.Zero,
		Earned:      policy.AnnualEntitlement,
		CarriedOver: carried,
		Remaining:   policy.AnnualEntitlement.Add(carried),
		Status:      BalanceOpen,
	}
	id, err := tx.InsertBalance(ctx, balance)
	if err != nil {
		return false, closed, err
	}

	if carried.IsPositive() {
		if _, err := tx.InsertTransaction(ctx, Transaction{
			BalanceID: id,
			Type:      TxnAdjustment,
			Days:      carried,
			Remarks:   fmt.Sprintf("%s days carried over from %s", carried.String(), previousYear),
		}); err != nil {
			return false, closed, err
		}
	}
	return true, closed, nil
}

// RunRollover resolves the active year configuration containing date and
// rolls every active policy into it.
func (s *Service) RunRollover(ctx context.Context, date time.Time) (RolloverSummary, error) {
	cfg, err := s.ActiveYearConfig(ctx, date)
	if err != nil {
		return RolloverSummary{}, err
	}
	previousYear := YearIdentifier(cfg.CutoffStart.AddDate(-1, 0, 0), cfg.CutoffEnd.AddDate(-1, 0, 0))
	return OpenYearBalances(ctx, s.Txn, cfg, previousYear, s.Now())
}
