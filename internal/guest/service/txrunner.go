package service

import (
	"context"
	"database/sql"

	"hotelmgt/internal/db"
	"hotelmgt/internal/guest/repository"
)

// StoreProvider exposes the stores a transactional guest operation needs.
type StoreProvider interface {
	Guests() repository.Repository
}

// TxRunner runs fn within a transaction and provides stores bound to it.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type dbTxRunner struct {
	conn *sql.DB
}

// NewTxRunner builds a TxRunner on conn.
func NewTxRunner(conn *sql.DB) TxRunner {
	return &dbTxRunner{conn: conn}
}

func (r *dbTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	return db.WithTx(ctx, r.conn, func(tx *sql.Tx) error {
		return fn(NewStores(tx))
	})
}

type querierStores struct {
	guests repository.Repository
}

// NewStores returns stores bound to q, typically a caller-owned *sql.Tx.
func NewStores(q db.Querier) StoreProvider {
	return &querierStores{guests: repository.NewPostgresRepository(q)}
}

func (s *querierStores) Guests() repository.Repository { return s.guests }
