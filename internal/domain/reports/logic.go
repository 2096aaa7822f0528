package reports

import (
	"github.com/shopspring/decimal"

	"leavedesk/internal/domain/leave"
)

// LedgerDrift compares the net of a balance's ledger entries against the
// movement its snapshot claims. The ledger records every mutation after the
// annual grant (approvals, reversals, adjustments, encashments, carry-over),
// so its net must equal remaining - beginning - annualEntitlement. A non-zero
// drift means snapshot and ledger have diverged and the balance needs manual
// review; the snapshot stays authoritative.
func LedgerDrift(balance leave.Balance, annualEntitlement decimal.Decimal, ledgerNet decimal.Decimal) decimal.Decimal {
	expected := balance.Remaining.Sub(balance.Beginning).Sub(annualEntitlement)
	return ledgerNet.Sub(expected)
}
