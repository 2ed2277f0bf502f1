package prefsink

import (
	"fmt"

	"github.com/dop251/goja"
)

type jsEvaluator struct{}

// NewJSEvaluator constructs an Evaluator backed by goja. The expression is
// evaluated as the return value of a function body.
func NewJSEvaluator() Evaluator {
	return &jsEvaluator{}
}

func (e *jsEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	ctx = ctx.withDefaults()

	vm := goja.New()
	for key, value := range ctx.bindings() {
		if err := vm.Set(key, value); err != nil {
			return nil, err
		}
	}
	if err := vm.Set("pref", func(key string, def ...any) any {
		return ctx.Lookup(key, def...)
	}); err != nil {
		return nil, err
	}

	value, err := vm.RunString(fmt.Sprintf("(function(){ return (%s); })()", expression))
	if err != nil {
		return nil, err
	}
	return value.Export(), nil
}
