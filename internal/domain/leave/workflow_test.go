package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(value string) decimal.Decimal {
	out, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return out
}

func testWorkflow(store *fakeStore) *Workflow {
	return &Workflow{
		Store: store,
		Now:   func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) },
	}
}

func openBalance(store *fakeStore, employeeID string, remaining string) Balance {
	return store.addBalance(Balance{
		EmployeeID:  employeeID,
		LeaveTypeID: "lt-vacation",
		PolicyID:    "pol-1",
		Year:        "2023-2024",
		Earned:      d(remaining),
		Remaining:   d(remaining),
	})
}

func pendingRequest(store *fakeStore, employeeID, balanceID, days string) Request {
	return store.addRequest(Request{
		EmployeeID: employeeID,
		BalanceID:  balanceID,
		StartDate:  time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC),
		TotalDays:  d(days),
		Status:     StatusPending,
	})
}

func TestApproveThenCancelRestoresBalanceExactly(t *testing.T) {
	store := newFakeStore()
	wf := testWorkflow(store)
	balance := openBalance(store, "emp-1", "15")
	req := pendingRequest(store, "emp-1", balance.ID, "5")

	approved, err := wf.Approve(context.Background(), req.ID, "mgr-1", "enjoy")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != StatusApproved || approved.ApproverID != "mgr-1" {
		t.Fatalf("unexpected approved request: %+v", approved)
	}

	got := store.balances[balance.ID]
	if !got.Used.Equal(d("5")) || !got.Remaining.Equal(d("10")) {
		t.Fatalf("expected used=5 remaining=10, got used=%s remaining=%s", got.Used, got.Remaining)
	}
	if !got.Consistent() {
		t.Fatalf("balance invariant broken after approve: %+v", got)
	}
	if got.LastTransaction == nil {
		t.Fatal("expected lastTransactionDate to be stamped")
	}
	txns := store.txnsFor(balance.ID)
	if len(txns) != 1 || !txns[0].Days.Equal(d("-5")) || txns[0].Type != TxnRequest {
		t.Fatalf("expected one -5 request transaction, got %+v", txns)
	}

	cancelled, err := wf.Cancel(context.Background(), req.ID, "emp-1")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Fatalf("expected cancelled status, got %s", cancelled.Status)
	}

	got = store.balances[balance.ID]
	if !got.Used.Equal(d("0")) || !got.Remaining.Equal(d("15")) {
		t.Fatalf("expected restored used=0 remaining=15, got used=%s remaining=%s", got.Used, got.Remaining)
	}
	if !got.Consistent() {
		t.Fatalf("balance invariant broken after cancel: %+v", got)
	}
	txns = store.txnsFor(balance.ID)
	if len(txns) != 2 || !txns[1].Days.Equal(d("5")) {
		t.Fatalf("expected a second +5 transaction, got %+v", txns)
	}
}

func TestApproveRequiresPendingStatus(t *testing.T) {
	store := newFakeStore()
	wf := testWorkflow(store)
	balance := openBalance(store, "emp-1", "10")

	for _, status := range []string{StatusApproved, StatusRejected, StatusCancelled} {
		req := store.addRequest(Request{EmployeeID: "emp-1", BalanceID: balance.ID, TotalDays: d("2"), Status: status})
		if _, err := wf.Approve(context.Background(), req.ID, "mgr-1", ""); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("status %s: expected ErrInvalidState, got %v", status, err)
		}
	}
}

func TestApproveMissingRequestAndBalance(t *testing.T) {
	store := newFakeStore()
	wf := testWorkflow(store)

	if _, err := wf.Approve(context.Background(), "nope", "mgr-1", ""); !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}

	req := store.addRequest(Request{EmployeeID: "emp-1", BalanceID: "missing", TotalDays: d("2"), Status: StatusPending})
	if _, err := wf.Approve(context.Background(), req.ID, "mgr-1", ""); !errors.Is(err, ErrBalanceNotFound) {
		t.Fatalf("expected ErrBalanceNotFound, got %v", err)
	}
}

func TestApproveInsufficientBalanceRollsBack(t *testing.T) {
	store := newFakeStore()
	wf := testWorkflow(store)
	balance := openBalance(store, "emp-1", "3")
	req := pendingRequest(store, "emp-1", balance.ID, "5")

	if _, err := wf.Approve(context.Background(), req.ID, "mgr-1", ""); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if store.requests[req.ID].Status != StatusPending {
		t.Fatal("request status should be untouched after failed approve")
	}
	if got := store.balances[balance.ID]; !got.Remaining.Equal(d("3")) || !got.Used.IsZero() {
		t.Fatalf("balance should be untouched, got %+v", got)
	}
	if len(store.txns) != 0 {
		t.Fatalf("expected no transactions, got %d", len(store.txns))
	}
}

func TestApproveClosedBalanceLeavesEverythingUntouched(t *testing.T) {
	store := newFakeStore()
	wf := testWorkflow(store)
	balance := store.addBalance(Balance{EmployeeID: "emp-1", Earned: d("10"), Remaining: d("10"), Status: BalanceClosed})
	req := pendingRequest(store, "emp-1", balance.ID, "2")

	if _, err := wf.Approve(context.Background(), req.ID, "mgr-1", ""); !errors.Is(err, ErrBalanceClosed) {
		t.Fatalf("expected ErrBalanceClosed, got %v", err)
	}
	if store.requests[req.ID].Status != StatusPending {
		t.Fatal("request should remain pending")
	}
}

func TestApproveConflictWhenBalanceChangesConcurrently(t *testing.T) {
	store := newFakeStore()
	wf := testWorkflow(store)
	balance := openBalance(store, "emp-1", "10")
	req := pendingRequest(store, "emp-1", balance.ID, "5")

	store.beforeDelta = func(s *fakeStore) {
		b := s.balances[balance.ID]
		b.Used = b.Used.Add(d("8"))
		b.Remaining = b.Remaining.Sub(d("8"))
		s.balances[balance.ID] = b
	}

	if _, err := wf.Approve(context.Background(), req.ID, "mgr-1", ""); !errors.Is(err, ErrBalanceConflict) {
		t.Fatalf("expected ErrBalanceConflict, got %v", err)
	}
	if store.requests[req.ID].Status != StatusPending {
		t.Fatal("request status update must roll back with the conflict")
	}
}

func TestRejectRequiresRemarks(t *testing.T) {
	store := newFakeStore()
	wf := testWorkflow(store)

	for _, remarks := range []string{"", "   ", "\t\n"} {
		if _, err := wf.Reject(context.Background(), "req-x", "mgr-1", remarks); !errors.Is(err, ErrRemarksRequired) {
			t.Fatalf("remarks %q: expected ErrRemarksRequired, got %v", remarks, err)
		}
	}
}

func TestRejectHasNoLedgerEffect(t *testing.T) {
	store := newFakeStore()
	wf := testWorkflow(store)
	balance := openBalance(store, "emp-1", "15")
	req := pendingRequest(store, "emp-1", balance.ID, "5")

	rejected, err := wf.Reject(context.Background(), req.ID, "mgr-1", "project deadline")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != StatusRejected {
		t.Fatalf("expected rejected, got %s", rejected.Status)
	}
	if got := store.balances[balance.ID]; !got.Remaining.Equal(d("15")) || !got.Used.IsZero() {
		t.Fatalf("reject must not touch balance, got %+v", got)
	}
	if len(store.txns) != 0 {
		t.Fatalf("reject must not create transactions, got %d", len(store.txns))
	}

	if _, err := wf.Reject(context.Background(), req.ID, "mgr-1", "again"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on second reject, got %v", err)
	}
}

func TestCancelOwnershipCheck(t *testing.T) {
	store := newFakeStore()
	wf := testWorkflow(store)
	balance := openBalance(store, "emp-1", "10")

	for _, status := range []string{StatusPending, StatusApproved, StatusRejected} {
		req := store.addRequest(Request{EmployeeID: "emp-1", BalanceID: balance.ID, TotalDays: d("2"), Status: status})
		if _, err := wf.Cancel(context.Background(), req.ID, "emp-2"); !errors.Is(err, ErrNotRequestOwner) {
			t.Fatalf("status %s: expected ErrNotRequestOwner, got %v", status, err)
		}
	}
}

func TestCancelPendingSkipsLedger(t *testing.T) {
	store := newFakeStore()
	wf := testWorkflow(store)
	balance := openBalance(store, "emp-1", "15")
	req := pendingRequest(store, "emp-1", balance.ID, "5")

	cancelled, err := wf.Cancel(context.Background(), req.ID, "emp-1")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if got := store.balances[balance.ID]; !got.Remaining.Equal(d("15")) {
		t.Fatalf("pending cancel must not touch balance, got %+v", got)
	}
	if len(store.txns) != 0 {
		t.Fatalf("pending cancel must not create transactions, got %d", len(store.txns))
	}
}

func TestCancelTerminalStatesRejected(t *testing.T) {
	store := newFakeStore()
	wf := testWorkflow(store)
	balance := openBalance(store, "emp-1", "10")

	for _, status := range []string{StatusRejected, StatusCancelled} {
		req := store.addRequest(Request{EmployeeID: "emp-1", BalanceID: balance.ID, TotalDays: d("2"), Status: status})
		if _, err := wf.Cancel(context.Background(), req.ID, "emp-1"); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("status %s: expected ErrInvalidState, got %v", status, err)
		}
	}
}

func TestCancelApprovedAgainstClosedBalance(t *testing.T) {
	store := newFakeStore()
	wf := testWorkflow(store)
	balance := store.addBalance(Balance{EmployeeID: "emp-1", Earned: d("10"), Used: d("4"), Remaining: d("6"), Status: BalanceClosed})
	req := store.addRequest(Request{EmployeeID: "emp-1", BalanceID: balance.ID, TotalDays: d("4"), Status: StatusApproved})

	if _, err := wf.Cancel(context.Background(), req.ID, "emp-1"); !errors.Is(err, ErrBalanceClosed) {
		t.Fatalf("expected ErrBalanceClosed, got %v", err)
	}
	if store.requests[req.ID].Status != StatusApproved {
		t.Fatal("request must stay approved when balance is closed")
	}
	if got := store.balances[balance.ID]; !got.Used.Equal(d("4")) {
		t.Fatalf("closed balance must stay untouched, got %+v", got)
	}
}

func TestSubmitValidatesBalanceAndSufficiency(t *testing.T) {
	store := newFakeStore()
	wf := testWorkflow(store)
	balance := openBalance(store, "emp-1", "3")

	cmd := SubmitCommand{
		EmployeeID: "emp-1",
		BalanceID:  balance.ID,
		StartDate:  time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC),
	}
	if _, err := wf.Submit(context.Background(), cmd); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	cmd.EndDate = time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	req, err := wf.Submit(context.Background(), cmd)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if req.Status != StatusPending || !req.TotalDays.Equal(d("2")) {
		t.Fatalf("unexpected submitted request: %+v", req)
	}

	cmd.EmployeeID = "emp-2"
	if _, err := wf.Submit(context.Background(), cmd); !errors.Is(err, ErrBalanceMismatch) {
		t.Fatalf("expected ErrBalanceMismatch, got %v", err)
	}

	cmd.EmployeeID = "emp-1"
	cmd.EndDate = cmd.StartDate.AddDate(0, 0, -1)
	if _, err := wf.Submit(context.Background(), cmd); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}
