package sql

import (
	"context"
	"sync"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
)

// TxKind distinguishes the access mode a transaction was opened under.
type TxKind uint8

const (
	ReadOnly TxKind = iota
	ReadWrite
)

// LockMode is the granularity requested via TransactionContext.RequestLock.
type LockMode uint8

const (
	SharedLock LockMode = iota
	ExclusiveLock
)

// DBO is any persistent database object (catalogue, schema, entity,
// column, index, sequence) that a transaction can hold a sub-transaction
// and locks against. Implementations are expected to be stable pointer
// identities so they work as map keys.
type DBO interface {
	DBOName() Name
}

// Tx is the opaque per-DBO sub-transaction handle returned by a catalogue
// collaborator; the core never looks inside it.
type Tx interface {
	Commit() error
	Rollback() error
}

// LockManager is the external collaborator that grants/releases locks on
// DBOs for the duration of a TransactionContext. Held only as an interface;
// the core does not implement locking itself.
type LockManager interface {
	Lock(dbo DBO, mode LockMode) error
	Unlock(dbo DBO) error
}

// TransactionCatalog is the external collaborator that opens
// TransactionContexts and hands back per-DBO Tx handles.
type TransactionCatalog interface {
	BeginTransaction(ctx context.Context, kind TxKind) (*TransactionContext, error)
	GetTx(t *TransactionContext, dbo DBO) (Tx, error)
}

// TransactionContext lives across one or more queries. It lazily opens one
// sub-transaction per DBO on first GetTx, and closes all of them together
// on Commit/Rollback. A shared read lock on the catalogue blocks
// close-during-use; write actions request exclusive locks on their target
// DBO through the LockManager.
type TransactionContext struct {
	Kind   TxKind
	GoCtx  context.Context
	cancel context.CancelFunc
	locks  LockManager
	catalg TransactionCatalog

	mu  sync.Mutex
	txs map[DBO]Tx
}

// NewTransactionContext wires a fresh TransactionContext around a
// cancellable context.Context, a lock manager and the catalogue
// collaborator that will lazily produce sub-transactions.
func NewTransactionContext(parent context.Context, kind TxKind, locks LockManager, catalg TransactionCatalog) *TransactionContext {
	goCtx, cancel := context.WithCancel(parent)
	return &TransactionContext{
		Kind:   kind,
		GoCtx:  goCtx,
		cancel: cancel,
		locks:  locks,
		catalg: catalg,
		txs:    make(map[DBO]Tx),
	}
}

// GetTx returns the sub-transaction for dbo, opening it lazily on first
// use via the catalogue collaborator.
func (t *TransactionContext) GetTx(dbo DBO) (Tx, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tx, ok := t.txs[dbo]; ok {
		return tx, nil
	}
	tx, err := t.catalg.GetTx(t, dbo)
	if err != nil {
		return nil, err
	}
	t.txs[dbo] = tx
	return tx, nil
}

// RequestLock asks the lock manager for mode on dbo, for the lifetime of
// this transaction.
func (t *TransactionContext) RequestLock(dbo DBO, mode LockMode) error {
	if t.locks == nil {
		return nil
	}
	return t.locks.Lock(dbo, mode)
}

// Cancel trips the cancellation token observed by every operator between
// records; it also rolls back every open sub-transaction.
func (t *TransactionContext) Cancel() {
	t.cancel()
	_ = t.rollbackAll()
}

// Cancelled reports whether the transaction's cancellation token has been
// tripped.
func (t *TransactionContext) Cancelled() bool {
	select {
	case <-t.GoCtx.Done():
		return true
	default:
		return false
	}
}

func (t *TransactionContext) rollbackAll() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	var firstErr error
	for dbo, tx := range t.txs {
		if err := tx.Rollback(); err != nil && firstErr == nil {
			firstErr = err
		}
		if t.locks != nil {
			_ = t.locks.Unlock(dbo)
		}
	}
	t.txs = make(map[DBO]Tx)
	return firstErr
}

// Commit commits every open sub-transaction and releases their locks.
func (t *TransactionContext) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	var firstErr error
	for dbo, tx := range t.txs {
		if err := tx.Commit(); err != nil && firstErr == nil {
			firstErr = err
		}
		if t.locks != nil {
			_ = t.locks.Unlock(dbo)
		}
	}
	t.txs = make(map[DBO]Tx)
	return firstErr
}

// Rollback rolls back every open sub-transaction.
func (t *TransactionContext) Rollback() error {
	return t.rollbackAll()
}

// Context is the per-query execution context threaded through the operator
// tree: the owning TransactionContext, a logger, and a tracer and span
// from which operators open child spans.
type Context struct {
	context.Context
	Tx     *TransactionContext
	Log    *logrus.Entry
	Tracer opentracing.Tracer
	Span   opentracing.Span
}

// NewContext builds a query Context bound to a TransactionContext.
func NewContext(tx *TransactionContext, log *logrus.Entry, tracer opentracing.Tracer) *Context {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if tracer == nil {
		tracer = opentracing.NoopTracer{}
	}
	return &Context{Context: tx.GoCtx, Tx: tx, Log: log, Tracer: tracer}
}

// NewEmptyContext builds a Context with no backing transaction, useful for
// unit tests that exercise operators directly.
func NewEmptyContext() *Context {
	goCtx, cancel := context.WithCancel(context.Background())
	_ = cancel
	return &Context{
		Context: goCtx,
		Tx:      nil,
		Log:     logrus.NewEntry(logrus.StandardLogger()),
		Tracer:  opentracing.NoopTracer{},
	}
}

// StartSpan opens a child span for a suspension point (source poll,
// pipeline next, breaker drain) and returns a Context carrying it plus a
// finish func the caller must invoke.
func (c *Context) StartSpan(operation string) (*Context, func()) {
	var span opentracing.Span
	if c.Span != nil {
		span = c.Tracer.StartSpan(operation, opentracing.ChildOf(c.Span.Context()))
	} else {
		span = c.Tracer.StartSpan(operation)
	}
	child := &Context{Context: c.Context, Tx: c.Tx, Log: c.Log, Tracer: c.Tracer, Span: span}
	return child, span.Finish
}

// Cancelled reports whether the query's Go context or transaction has been
// cancelled.
func (c *Context) Cancelled() bool {
	select {
	case <-c.Context.Done():
		return true
	default:
	}
	if c.Tx != nil {
		return c.Tx.Cancelled()
	}
	return false
}
