package leave

import (
	"context"
	"testing"
	"time"
)

func TestOpenYearBalancesCarriesOverUpToLimit(t *testing.T) {
	store := newFakeStore()
	store.employees = []string{"emp-1"}
	policy := store.addPolicy(Policy{
		LeaveTypeID:       "lt-vacation",
		AnnualEntitlement: d("12"),
		CarryLimit:        d("5"),
		Status:            PolicyActive,
	})
	previous := store.addBalance(Balance{
		EmployeeID:  "emp-1",
		LeaveTypeID: "lt-vacation",
		PolicyID:    policy.ID,
		Year:        "2023-2024",
		Earned:      d("12"),
		Used:        d("4"),
		Remaining:   d("8"),
	})

	cfg := YearConfig{Year: "2024-2025"}
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	summary, err := OpenYearBalances(context.Background(), store, cfg, "2023-2024", now)
	if err != nil {
		t.Fatalf("rollover failed: %v", err)
	}
	if summary.PoliciesProcessed != 1 || summary.BalancesOpened != 1 || summary.BalancesClosed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	if got := store.balances[previous.ID]; got.Status != BalanceClosed {
		t.Fatalf("previous balance should be closed, got %s", got.Status)
	}

	opened, err := store.FindBalance(context.Background(), "emp-1", "lt-vacation", "2024-2025")
	if err != nil {
		t.Fatalf("expected new-year balance: %v", err)
	}
	if !opened.CarriedOver.Equal(d("5")) {
		t.Fatalf("carry-over should be capped at 5, got %s", opened.CarriedOver)
	}
	if !opened.Earned.Equal(d("12")) || !opened.Remaining.Equal(d("17")) {
		t.Fatalf("expected earned=12 remaining=17, got %+v", opened)
	}
	if !opened.Consistent() {
		t.Fatalf("opened balance breaks the invariant: %+v", opened)
	}

	txns := store.txnsFor(opened.ID)
	if len(txns) != 1 || txns[0].Type != TxnAdjustment || !txns[0].Days.Equal(d("5")) {
		t.Fatalf("expected one +5 adjustment for the carry-over, got %+v", txns)
	}
}

func TestOpenYearBalancesIsIdempotentPerYear(t *testing.T) {
	store := newFakeStore()
	store.employees = []string{"emp-1"}
	store.addPolicy(Policy{LeaveTypeID: "lt-sick", AnnualEntitlement: d("10"), Status: PolicyActive})

	cfg := YearConfig{Year: "2024-2025"}
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	first, err := OpenYearBalances(context.Background(), store, cfg, "2023-2024", now)
	if err != nil || first.BalancesOpened != 1 {
		t.Fatalf("first rollover: %+v err=%v", first, err)
	}
	second, err := OpenYearBalances(context.Background(), store, cfg, "2023-2024", now)
	if err != nil {
		t.Fatalf("second rollover failed: %v", err)
	}
	if second.BalancesOpened != 0 {
		t.Fatalf("second rollover must not open duplicates, got %+v", second)
	}
}

func TestOpenYearBalancesSkipsDraftAndRetiredPolicies(t *testing.T) {
	store := newFakeStore()
	store.employees = []string{"emp-1"}
	store.addPolicy(Policy{LeaveTypeID: "lt-a", AnnualEntitlement: d("10"), Status: PolicyDraft})
	store.addPolicy(Policy{LeaveTypeID: "lt-b", AnnualEntitlement: d("10"), Status: PolicyRetired})

	summary, err := OpenYearBalances(context.Background(), store, YearConfig{Year: "2024-2025"}, "2023-2024", time.Now())
	if err != nil {
		t.Fatalf("rollover failed: %v", err)
	}
	if summary.PoliciesProcessed != 0 || summary.BalancesOpened != 0 {
		t.Fatalf("draft and retired policies must be skipped, got %+v", summary)
	}
}
