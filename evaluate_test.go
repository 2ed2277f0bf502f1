package prefsink

import (
	"errors"
	"strings"
	"testing"
)

func evaluatorJar(t *testing.T, engine string, opts ...JarOption) *Jar {
	t.Helper()
	evaluator, err := NewEvaluator(engine)
	if err != nil {
		t.Fatalf("NewEvaluator(%q): %v", engine, err)
	}
	opts = append([]JarOption{
		WithEvaluator(evaluator),
		WithEnvironment(MapEnvironment{"BUSTER_REGION": "eu"}),
	}, opts...)
	return NewJar("buster", map[string]any{
		"theme":  "dark",
		"admin":  true,
		"tier-x": "gold",
	}, "/home/u/.buster.js", opts...)
}

func TestEvaluatorsAgree(t *testing.T) {
	cases := []struct {
		name string
		expr string
		want any
	}{
		{name: "file variable", expr: `theme == "dark"`, want: true},
		{name: "boolean variable", expr: `admin && theme != "light"`, want: true},
		{name: "source binding", expr: `source == "/home/u/.buster.js"`, want: true},
		{name: "pref reads env", expr: `pref("region") == "eu"`, want: true},
		{name: "pref reads non identifier key", expr: `pref("tier-x")`, want: "gold"},
		{name: "pref default", expr: `pref("missing", "fallback")`, want: "fallback"},
	}
	for _, engine := range []string{"expr", "cel", "js"} {
		jar := evaluatorJar(t, engine)
		for _, tc := range cases {
			t.Run(engine+"/"+tc.name, func(t *testing.T) {
				got, err := jar.Evaluate(tc.expr)
				if err != nil {
					t.Fatalf("evaluate %q: %v", tc.expr, err)
				}
				if got != tc.want {
					t.Fatalf("evaluate %q = %#v, want %#v", tc.expr, got, tc.want)
				}
			})
		}
	}
}

func TestEvaluateWithArgs(t *testing.T) {
	for _, engine := range []string{"expr", "cel", "js"} {
		jar := evaluatorJar(t, engine)
		got, err := jar.EvaluateWith(map[string]any{"user": "ada"}, `args.user == "ada"`)
		if err != nil {
			t.Fatalf("%s: %v", engine, err)
		}
		if got != true {
			t.Fatalf("%s: expected true, got %#v", engine, got)
		}
	}
}

func TestEvaluateNamespaceBinding(t *testing.T) {
	for _, engine := range []string{"expr", "js"} {
		got, err := evaluatorJar(t, engine).Evaluate(`namespace`)
		if err != nil {
			t.Fatalf("%s: %v", engine, err)
		}
		if got != "buster" {
			t.Fatalf("%s: expected namespace, got %#v", engine, got)
		}
	}
}

func TestEvaluateDefaultsToExpr(t *testing.T) {
	jar := Create("buster", map[string]any{"theme": "dark"}, "/p")
	got, err := jar.Evaluate(`theme + "!"`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != "dark!" {
		t.Fatalf("unexpected result %#v", got)
	}
}

func TestEvaluateRejectsEmptyExpression(t *testing.T) {
	if _, err := Create("buster", nil, "").Evaluate(""); err == nil {
		t.Fatalf("expected error for empty expression")
	}
}

func TestEvaluateErrorsCarryMetadata(t *testing.T) {
	var events []Evaluation
	observer := EvaluationObserverFunc(func(ev Evaluation) {
		events = append(events, ev)
	})

	for _, engine := range []string{"expr", "cel", "js"} {
		events = nil
		jar := evaluatorJar(t, engine, WithEvaluationObserver(observer))
		_, err := jar.Evaluate(`theme ==`)
		if err == nil {
			t.Fatalf("%s: expected syntax error", engine)
		}
		var evalErr *EvaluationError
		if !errors.As(err, &evalErr) {
			t.Fatalf("%s: expected *EvaluationError, got %T", engine, err)
		}
		if evalErr.Engine != engine || evalErr.Namespace != "buster" || evalErr.Expr != `theme ==` || evalErr.Source != "/home/u/.buster.js" {
			t.Fatalf("%s: unexpected metadata %+v", engine, evalErr)
		}
		if len(events) != 1 || events[0].Err == nil || events[0].Engine != engine {
			t.Fatalf("%s: expected one failed evaluation, got %+v", engine, events)
		}
		if events[0].Err != err {
			t.Fatalf("%s: observer and caller saw different errors", engine)
		}
	}
}

func TestNewEvaluatorUnknown(t *testing.T) {
	if _, err := NewEvaluator("lua"); err == nil || !strings.Contains(err.Error(), "lua") {
		t.Fatalf("expected unknown evaluator error, got %v", err)
	}
}

func TestIsCELIdentifier(t *testing.T) {
	cases := map[string]bool{
		"theme":     true,
		"_private":  true,
		"tab2":      true,
		"2tab":      false,
		"tier-x":    false,
		"namespace": false,
		"":          false,
	}
	for name, want := range cases {
		if got := isCELIdentifier(name); got != want {
			t.Errorf("isCELIdentifier(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestObserverSeesResult(t *testing.T) {
	var seen []Evaluation
	jar := NewJar("buster", map[string]any{"theme": "dark"}, "/p",
		WithEvaluationObserver(EvaluationObserverFunc(func(ev Evaluation) { seen = append(seen, ev) })))

	if _, err := jar.Evaluate(`theme`); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(seen) != 1 || seen[0].Result != "dark" || seen[0].Engine != "expr" || seen[0].Source != "/p" {
		t.Fatalf("unexpected evaluations %+v", seen)
	}
}

func TestNewEvaluatorJS(t *testing.T) {
	evaluator, err := NewEvaluator("js")
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	if name := evaluatorEngineName(evaluator); name != "js" {
		t.Fatalf("expected js engine, got %q", name)
	}
	got, err := evaluator.Evaluate(RuleContext{Values: map[string]any{"n": 2}}, "n * 3")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != int64(6) {
		t.Fatalf("expected 6, got %#v", got)
	}
}
