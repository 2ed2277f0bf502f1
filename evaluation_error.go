package prefsink

import (
	"errors"
	"fmt"
)

// EvaluationError is returned by Jar.Evaluate when an engine rejects or
// fails an expression.
type EvaluationError struct {
	Engine    string
	Expr      string
	Namespace string
	Source    string
	Err       error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	where := describeNamespace(e.Namespace)
	if e.Source != "" {
		where += " (" + e.Source + ")"
	}
	return fmt.Sprintf("prefsink: evaluate %q with %s for %s: %v", e.Expr, e.Engine, where, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// evaluationFailed wraps err with the evaluation that produced it. Errors
// that already are an *EvaluationError pass through unchanged.
func evaluationFailed(ev Evaluation, err error) error {
	if err == nil {
		return nil
	}
	var existing *EvaluationError
	if errors.As(err, &existing) {
		return err
	}
	return &EvaluationError{
		Engine:    ev.Engine,
		Expr:      ev.Expr,
		Namespace: ev.Namespace,
		Source:    ev.Source,
		Err:       err,
	}
}
