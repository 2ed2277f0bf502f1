package prefsink

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

type celEvaluator struct{}

// NewCELEvaluator constructs an Evaluator backed by cel-go. Preference keys
// are declared as dyn variables when they are valid CEL identifiers;
// pref("some-key") reaches any key. namespace is reserved in CEL and is not
// bound.
func NewCELEvaluator() Evaluator {
	return &celEvaluator{}
}

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	ctx = ctx.withDefaults()
	bindings := ctx.bindings()

	env, err := e.buildEnv(ctx, bindings)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	out, _, err := program.Eval(bindings)
	if err != nil {
		return nil, err
	}
	return out.Value(), nil
}

func (e *celEvaluator) buildEnv(ctx RuleContext, bindings map[string]any) (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("source", celgo.StringType),
		celgo.Variable("args", celgo.DynType),
		celgo.Variable("now", celgo.TimestampType),
		celgo.Function("pref",
			celgo.Overload("pref_string",
				[]*celgo.Type{celgo.StringType},
				celgo.DynType,
				celgo.UnaryBinding(func(key ref.Val) ref.Val {
					return celLookup(ctx, key)
				}),
			),
			celgo.Overload("pref_string_dyn",
				[]*celgo.Type{celgo.StringType, celgo.DynType},
				celgo.DynType,
				celgo.BinaryBinding(func(key, def ref.Val) ref.Val {
					return celLookup(ctx, key, def.Value())
				}),
			),
		),
	}
	for key := range bindings {
		switch key {
		case "namespace", "source", "args", "now":
			continue
		}
		if !isCELIdentifier(key) {
			continue
		}
		opts = append(opts, celgo.Variable(key, celgo.DynType))
	}
	return celgo.NewEnv(opts...)
}

func celLookup(ctx RuleContext, key ref.Val, def ...any) ref.Val {
	name, ok := key.Value().(string)
	if !ok {
		return types.NewErr("pref key must be a string")
	}
	value := ctx.Lookup(name, def...)
	if value == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(value)
}

var celReserved = map[string]struct{}{
	"true": {}, "false": {}, "null": {}, "in": {}, "as": {}, "break": {},
	"const": {}, "continue": {}, "else": {}, "for": {}, "function": {}, "if": {},
	"import": {}, "let": {}, "loop": {}, "package": {}, "namespace": {},
	"return": {}, "var": {}, "void": {}, "while": {},
}

func isCELIdentifier(name string) bool {
	if name == "" {
		return false
	}
	if _, reserved := celReserved[name]; reserved {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
