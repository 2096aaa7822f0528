package leave

// Request lifecycle states. Pending is the only state a decision can act on;
// the other three are terminal.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// Policy lifecycle states. Draft policies govern nothing; retired is terminal.
const (
	PolicyDraft   = "draft"
	PolicyActive  = "active"
	PolicyRetired = "retired"
)

// Balance states. Closed balances accept no further mutation.
const (
	BalanceOpen   = "open"
	BalanceClosed = "closed"
)

// Ledger transaction types.
const (
	TxnRequest    = "request"
	TxnReversal   = "reversal"
	TxnAdjustment = "adjustment"
	TxnEncashment = "encashment"
)
