// Package errors defines the error kinds produced by the query engine
// core. Errors are classified by kind, not by Go type: each kind is a
// package-level *errors.Kind, and call sites create instances with
// New(args...). Callers classify with Is.
package errors

import goerrors "gopkg.in/src-d/go-errors.v1"

var (
	// ErrNotSupported is raised when the planner is asked to build a plan
	// that the core explicitly refuses: partitioning a node tagged
	// NotPartitionableTrait, or matching a predicate against an index that
	// cannot process it. Always raised before execution.
	ErrNotSupported = goerrors.NewKind("not supported: %s")

	// ErrDisconnectedPlan means toOperator was called on a tree with a
	// missing required input. Fatal programming error.
	ErrDisconnectedPlan = goerrors.NewKind("disconnected plan: %s")

	// ErrBindingNotBound means a Binding was read during execution without
	// ever being connected to a BindingContext. Fatal.
	ErrBindingNotBound = goerrors.NewKind("binding not bound: %s")

	// ErrTypeMismatch means a projection or function received an
	// incompatible type. Fatal.
	ErrTypeMismatch = goerrors.NewKind("type mismatch: expected %s, got %s")

	// ErrExecutionFailure wraps a storage/index failure surfaced through a
	// cursor. Propagates to the transaction, which rolls back.
	ErrExecutionFailure = goerrors.NewKind("execution failed: %s")

	// ErrCancelled is the terminal outcome of a tripped cancellation token.
	ErrCancelled = goerrors.NewKind("cancelled")
)
