package prefsink

import (
	"fmt"
	"maps"
	"time"
)

// Evaluator runs an expression against a jar's preferences.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
}

// RuleContext carries what an expression can see. Every key of Values is
// bound as a variable, alongside namespace, source, args and now. The pref
// function resolves through Lookup, so environment variables and defaults
// apply inside expressions too.
type RuleContext struct {
	Namespace string
	Source    string
	Values    map[string]any
	Args      map[string]any
	Now       *time.Time
	Lookup    func(key string, def ...any) any
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Values == nil {
		ctx.Values = map[string]any{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Lookup == nil {
		values := ctx.Values
		ctx.Lookup = func(key string, def ...any) any {
			if value, ok := values[key]; ok {
				return value
			}
			if len(def) > 0 {
				return def[0]
			}
			return nil
		}
	}
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	return *ctx.withDefaults().Now
}

// bindings returns the variables shared by every engine.
func (ctx RuleContext) bindings() map[string]any {
	env := maps.Clone(ctx.Values)
	if env == nil {
		env = map[string]any{}
	}
	env["namespace"] = ctx.Namespace
	env["source"] = ctx.Source
	env["args"] = ctx.Args
	env["now"] = ctx.timestamp()
	return env
}

// WithEvaluator selects the engine used by Jar.Evaluate. The expr engine is
// the default.
func WithEvaluator(e Evaluator) JarOption {
	return func(cfg *jarConfig) {
		cfg.evaluator = e
	}
}

// Evaluate runs expr against the jar.
func (j *Jar) Evaluate(expr string) (any, error) {
	return j.EvaluateWith(nil, expr)
}

// EvaluateWith runs expr with args bound to the args variable.
func (j *Jar) EvaluateWith(args map[string]any, expr string) (any, error) {
	if expr == "" {
		return nil, fmt.Errorf("prefsink: expression must not be empty")
	}
	evaluator := j.cfg.evaluator
	if evaluator == nil {
		evaluator = NewExprEvaluator()
	}
	ctx := RuleContext{
		Namespace: j.namespace,
		Source:    j.source,
		Values:    j.values,
		Args:      args,
		Lookup:    j.Get,
	}.withDefaults()

	ev := Evaluation{
		Engine:    evaluatorEngineName(evaluator),
		Expr:      expr,
		Namespace: j.namespace,
		Source:    j.source,
	}
	start := time.Now()
	value, err := evaluator.Evaluate(ctx, expr)
	ev.Elapsed = time.Since(start)
	ev.Result = value
	ev.Err = evaluationFailed(ev, err)
	j.cfg.observer.Observe(ev)
	if ev.Err != nil {
		return nil, ev.Err
	}
	return value, nil
}

func evaluatorEngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	case *jsEvaluator:
		return "js"
	default:
		return "custom"
	}
}

// NewEvaluator returns the engine registered under name: expr, cel or js.
func NewEvaluator(name string) (Evaluator, error) {
	switch name {
	case "", "expr":
		return NewExprEvaluator(), nil
	case "cel":
		return NewCELEvaluator(), nil
	case "js":
		return NewJSEvaluator(), nil
	default:
		return nil, fmt.Errorf("prefsink: unknown evaluator %q", name)
	}
}
