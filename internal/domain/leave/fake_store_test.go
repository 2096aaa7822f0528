package leave

import (
	"context"
	"fmt"
	"time"
)

// fakeStore is an in-memory Storage/TxStore used by the workflow and balance
// tests. InTx snapshots all state up front and restores it when fn fails, so
// rollback behavior is observable.
type fakeStore struct {
	policies  map[string]Policy
	requests  map[string]Request
	balances  map[string]Balance
	txns      []Transaction
	employees []string
	nextID    int

	// beforeDelta runs just before ApplyBalanceDelta evaluates its
	// compare-and-set, letting tests interleave a concurrent writer.
	beforeDelta func(s *fakeStore)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		policies: map[string]Policy{},
		requests: map[string]Request{},
		balances: map[string]Balance{},
	}
}

func (s *fakeStore) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *fakeStore) addPolicy(p Policy) Policy {
	if p.ID == "" {
		p.ID = s.id("pol")
	}
	s.policies[p.ID] = p
	return p
}

func (s *fakeStore) addBalance(b Balance) Balance {
	if b.ID == "" {
		b.ID = s.id("bal")
	}
	if b.Status == "" {
		b.Status = BalanceOpen
	}
	s.balances[b.ID] = b
	return b
}

func (s *fakeStore) addRequest(r Request) Request {
	if r.ID == "" {
		r.ID = s.id("req")
	}
	s.requests[r.ID] = r
	return r
}

func (s *fakeStore) snapshot() *fakeStore {
	copied := newFakeStore()
	for k, v := range s.policies {
		copied.policies[k] = v
	}
	for k, v := range s.requests {
		copied.requests[k] = v
	}
	for k, v := range s.balances {
		copied.balances[k] = v
	}
	copied.txns = append([]Transaction(nil), s.txns...)
	copied.employees = append([]string(nil), s.employees...)
	copied.nextID = s.nextID
	return copied
}

func (s *fakeStore) restore(from *fakeStore) {
	s.policies = from.policies
	s.requests = from.requests
	s.balances = from.balances
	s.txns = from.txns
	s.employees = from.employees
	s.nextID = from.nextID
}

func (s *fakeStore) InTx(ctx context.Context, fn func(ctx context.Context, tx TxStore) error) error {
	before := s.snapshot()
	if err := fn(ctx, s); err != nil {
		s.restore(before)
		return err
	}
	return nil
}

func (s *fakeStore) GetPolicy(ctx context.Context, id string) (Policy, error) {
	policy, ok := s.policies[id]
	if !ok {
		return Policy{}, ErrPolicyNotFound
	}
	return policy, nil
}

func (s *fakeStore) UpdatePolicyStatus(ctx context.Context, id, status string) (bool, error) {
	policy, ok := s.policies[id]
	if !ok {
		return false, nil
	}
	policy.Status = status
	s.policies[id] = policy
	return true, nil
}

func (s *fakeStore) ActivePolicies(ctx context.Context) ([]Policy, error) {
	var out []Policy
	for _, policy := range s.policies {
		if policy.Status == PolicyActive {
			out = append(out, policy)
		}
	}
	return out, nil
}

func (s *fakeStore) GetRequest(ctx context.Context, id string) (Request, error) {
	req, ok := s.requests[id]
	if !ok {
		return Request{}, ErrRequestNotFound
	}
	return req, nil
}

func (s *fakeStore) InsertRequest(ctx context.Context, req Request) (string, error) {
	req.ID = s.id("req")
	req.CreatedAt = time.Now()
	s.requests[req.ID] = req
	return req.ID, nil
}

func (s *fakeStore) UpdateRequestStatus(ctx context.Context, id, status, approverID, remarks string, decidedAt time.Time) (bool, error) {
	req, ok := s.requests[id]
	if !ok {
		return false, nil
	}
	req.Status = status
	req.ApproverID = approverID
	req.Remarks = remarks
	req.DecidedAt = &decidedAt
	s.requests[id] = req
	return true, nil
}

func (s *fakeStore) GetBalance(ctx context.Context, id string) (Balance, error) {
	balance, ok := s.balances[id]
	if !ok {
		return Balance{}, ErrBalanceNotFound
	}
	return balance, nil
}

func (s *fakeStore) FindBalance(ctx context.Context, employeeID, leaveTypeID, year string) (Balance, error) {
	for _, balance := range s.balances {
		if balance.EmployeeID == employeeID && balance.LeaveTypeID == leaveTypeID && balance.Year == year {
			return balance, nil
		}
	}
	return Balance{}, ErrBalanceNotFound
}

func (s *fakeStore) InsertBalance(ctx context.Context, balance Balance) (string, error) {
	balance.ID = s.id("bal")
	s.balances[balance.ID] = balance
	return balance.ID, nil
}

func (s *fakeStore) CloseBalance(ctx context.Context, id string, at time.Time) (bool, error) {
	balance, ok := s.balances[id]
	if !ok || balance.Status != BalanceOpen {
		return false, nil
	}
	balance.Status = BalanceClosed
	balance.LastTransaction = &at
	s.balances[id] = balance
	return true, nil
}

func (s *fakeStore) ApplyBalanceDelta(ctx context.Context, delta BalanceDelta) (bool, error) {
	if s.beforeDelta != nil {
		hook := s.beforeDelta
		s.beforeDelta = nil
		hook(s)
	}
	balance, ok := s.balances[delta.BalanceID]
	if !ok || balance.Status != BalanceOpen || !balance.Remaining.Equal(delta.ExpectedRemaining) {
		return false, nil
	}
	balance.Earned = balance.Earned.Add(delta.Earned)
	balance.Used = balance.Used.Add(delta.Used)
	balance.Encashed = balance.Encashed.Add(delta.Encashed)
	balance.Remaining = balance.Remaining.Add(delta.Remaining)
	balance.LastTransaction = &delta.At
	s.balances[delta.BalanceID] = balance
	return true, nil
}

func (s *fakeStore) InsertTransaction(ctx context.Context, txn Transaction) (string, error) {
	txn.ID = s.id("txn")
	txn.CreatedAt = time.Now()
	txn.Active = true
	s.txns = append(s.txns, txn)
	return txn.ID, nil
}

func (s *fakeStore) ListEmployeeIDs(ctx context.Context) ([]string, error) {
	return append([]string(nil), s.employees...), nil
}

func (s *fakeStore) txnsFor(balanceID string) []Transaction {
	var out []Transaction
	for _, txn := range s.txns {
		if txn.BalanceID == balanceID {
			out = append(out, txn)
		}
	}
	return out
}
