package prefsink

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
)

// exprEvaluator executes expressions using github.com/expr-lang/expr.
type exprEvaluator struct{}

// NewExprEvaluator constructs an Evaluator backed by expr-lang/expr.
// Undefined variables evaluate to nil instead of failing compilation.
func NewExprEvaluator() Evaluator {
	return &exprEvaluator{}
}

func (e *exprEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	ctx = ctx.withDefaults()
	env := ctx.bindings()
	env["pref"] = func(arguments ...any) (any, error) {
		key, def, err := prefArguments(arguments)
		if err != nil {
			return nil, err
		}
		return ctx.Lookup(key, def...), nil
	}

	program, err := exprlang.Compile(expression, exprlang.Env(env), exprlang.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	return exprlang.Run(program, env)
}

func prefArguments(arguments []any) (string, []any, error) {
	if len(arguments) == 0 || len(arguments) > 2 {
		return "", nil, fmt.Errorf("pref expects a key and an optional default, got %d arguments", len(arguments))
	}
	key, ok := arguments[0].(string)
	if !ok {
		return "", nil, fmt.Errorf("pref key must be a string, got %T", arguments[0])
	}
	return key, arguments[1:], nil
}
