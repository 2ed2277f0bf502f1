package prefsink

import (
	"log/slog"
	"time"
)

// Evaluation describes one finished Jar.Evaluate call.
type Evaluation struct {
	Engine    string
	Expr      string
	Namespace string
	Source    string
	Result    any
	Elapsed   time.Duration
	Err       error
}

// EvaluationObserver is told about every evaluation a jar runs.
type EvaluationObserver interface {
	Observe(Evaluation)
}

// EvaluationObserverFunc adapts a function to EvaluationObserver.
type EvaluationObserverFunc func(Evaluation)

// Observe implements EvaluationObserver.
func (f EvaluationObserverFunc) Observe(ev Evaluation) {
	if f != nil {
		f(ev)
	}
}

type nopObserver struct{}

func (nopObserver) Observe(Evaluation) {}

// SlogObserver logs failed evaluations at Warn and the rest at Debug.
func SlogObserver(logger *slog.Logger) EvaluationObserver {
	logger = loggerOrDiscard(logger)
	return EvaluationObserverFunc(func(ev Evaluation) {
		attrs := []any{
			slog.String("engine", ev.Engine),
			slog.String("expr", ev.Expr),
			slog.String("namespace", ev.Namespace),
			slog.Duration("elapsed", ev.Elapsed),
		}
		if ev.Err != nil {
			logger.Warn("evaluation failed", append(attrs, slog.Any("error", ev.Err))...)
			return
		}
		logger.Debug("evaluation finished", append(attrs, slog.Any("result", ev.Result))...)
	})
}

// WithEvaluationObserver reports every Jar.Evaluate call to observer.
func WithEvaluationObserver(observer EvaluationObserver) JarOption {
	return func(cfg *jarConfig) {
		cfg.observer = observer
	}
}
