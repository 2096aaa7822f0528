package reports

import (
	"testing"

	"github.com/shopspring/decimal"

	"leavedesk/internal/domain/leave"
)

func d(value string) decimal.Decimal {
	out, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return out
}

func TestLedgerDriftZeroWhenInSync(t *testing.T) {
	// entitlement 15, one 5-day approval recorded in both snapshot and ledger
	balance := leave.Balance{
		Earned:    d("15"),
		Used:      d("5"),
		Remaining: d("10"),
	}
	if drift := LedgerDrift(balance, d("15"), d("-5")); !drift.IsZero() {
		t.Fatalf("expected zero drift, got %s", drift)
	}
}

func TestLedgerDriftIncludesCarryOver(t *testing.T) {
	// entitlement 12, carry-over 5 logged as +5 adjustment, 3 days used
	balance := leave.Balance{
		Earned:      d("12"),
		CarriedOver: d("5"),
		Used:        d("3"),
		Remaining:   d("14"),
	}
	if drift := LedgerDrift(balance, d("12"), d("2")); !drift.IsZero() {
		t.Fatalf("expected zero drift, got %s", drift)
	}
}

func TestLedgerDriftDetectsMissingEntry(t *testing.T) {
	// snapshot shows a deduction the ledger never recorded
	balance := leave.Balance{
		Earned:    d("15"),
		Used:      d("5"),
		Remaining: d("10"),
	}
	drift := LedgerDrift(balance, d("15"), d("0"))
	if !drift.Equal(d("5")) {
		t.Fatalf("expected drift of 5, got %s", drift)
	}
}

func TestConsistentFlagsBrokenSnapshot(t *testing.T) {
	broken := leave.Balance{
		Earned:    d("15"),
		Used:      d("5"),
		Remaining: d("12"),
	}
	if broken.Consistent() {
		t.Fatal("snapshot with wrong remaining must be inconsistent")
	}
}
