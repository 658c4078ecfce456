package rowexec

import qerrors "github.com/cottontaildb/queryengine/engine/errors"

func errCancelled() error {
	return qerrors.ErrCancelled.New()
}

func executionFailure(err error) error {
	return qerrors.ErrExecutionFailure.New(err.Error())
}

func errNoSubqueryRow() error {
	return qerrors.ErrBindingNotBound.New("subquery produced no row for a binary comparison")
}
