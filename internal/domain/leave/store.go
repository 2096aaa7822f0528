package leave

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// InTx runs fn inside a single database transaction; a non-nil error from fn
// rolls back everything fn wrote.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx TxStore) error) error {
	return pgx.BeginFunc(ctx, s.DB, func(tx pgx.Tx) error {
		return fn(ctx, &txStore{db: tx})
	})
}

// txStore is the TxStore implementation bound to one open transaction.
type txStore struct {
	db querier
}
