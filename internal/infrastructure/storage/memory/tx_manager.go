// Package memory provides an in-process storage backend with the same transactional
// guarantees the services rely on: all-or-nothing writes and row locks held until the
// transaction ends. It backs tests and the "memory" storage driver.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ravikhokle/oddostock/internal/core/tx"
	"github.com/ravikhokle/oddostock/pkg/logger"
)

var errNoTransaction = errors.New("memory: operation requires a transaction")

type txKey struct{}

// txState is the undo log, the deferred writes and the locks of one transaction.
type txState struct {
	undo []func()
	// commit holds writes that become visible only once fn succeeds
	commit []func()
	held map[string]struct{}
	// order keeps acquisition order for release
	order []string
}

// TxManager implements tx.Manager with undo logs and keyed locks.
type TxManager struct {
	locks sync.Map // map[string]chan struct{}
}

func NewTxManager() *TxManager {
	return &TxManager{}
}

func getTx(ctx context.Context) *txState {
	st, _ := ctx.Value(txKey{}).(*txState)
	return st
}

// RunInTransaction executes fn in a transaction. Nested calls join the outer transaction.
// On error or panic every write is undone in reverse order and deferred writes are dropped.
// On success deferred writes are applied before the locks are released.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if getTx(ctx) != nil {
		return fn(ctx)
	}

	st := &txState{held: make(map[string]struct{})}
	txCtx := context.WithValue(ctx, txKey{}, st)

	defer func() {
		if p := recover(); p != nil {
			st.rollback()
			m.release(st)
			panic(p)
		}
		if err != nil {
			st.rollback()
			logger.Debug(ctx, "memory transaction rolled back", "error", err)
		} else {
			st.publish()
		}
		m.release(st)
	}()

	return fn(txCtx)
}

// ReadOnly runs fn in a transaction; writes are not prevented.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTransaction(ctx, fn)
}

// Lock acquires the named locks for the current transaction, in the given order.
// Locks already held by the transaction are skipped. Blocks until acquired or ctx is done.
func (m *TxManager) Lock(ctx context.Context, keys ...string) error {
	st := getTx(ctx)
	if st == nil {
		return errNoTransaction
	}
	for _, k := range keys {
		if _, ok := st.held[k]; ok {
			continue
		}
		ch, _ := m.locks.LoadOrStore(k, make(chan struct{}, 1))
		select {
		case ch.(chan struct{}) <- struct{}{}:
		case <-ctx.Done():
			return fmt.Errorf("lock %s: %w", k, ctx.Err())
		}
		st.held[k] = struct{}{}
		st.order = append(st.order, k)
	}
	return nil
}

func (m *TxManager) release(st *txState) {
	for i := len(st.order) - 1; i >= 0; i-- {
		if ch, ok := m.locks.Load(st.order[i]); ok {
			<-ch.(chan struct{})
		}
	}
	st.order = nil
	st.held = nil
}

// onRollback registers an undo step; outside a transaction the write is final.
func onRollback(ctx context.Context, undo func()) {
	if st := getTx(ctx); st != nil {
		st.undo = append(st.undo, undo)
	}
}

// afterCommit defers apply until the transaction commits; outside a transaction it runs at once.
func afterCommit(ctx context.Context, apply func()) {
	if st := getTx(ctx); st != nil {
		st.commit = append(st.commit, apply)
		return
	}
	apply()
}

func (st *txState) rollback() {
	for i := len(st.undo) - 1; i >= 0; i-- {
		st.undo[i]()
	}
	st.undo = nil
	st.commit = nil
}

func (st *txState) publish() {
	for _, apply := range st.commit {
		apply()
	}
	st.commit = nil
	st.undo = nil
}

var _ tx.ReadOnlyManager = (*TxManager)(nil)
