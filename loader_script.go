package prefsink

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dop251/goja"
)

// ScriptLoader evaluates a preference file as a CommonJS-style JavaScript
// module and returns module.exports. The module sees module, exports,
// __filename, __dirname and a read-only process.env.
type ScriptLoader struct {
	env     Environment
	timeout time.Duration
}

// ScriptOption configures a ScriptLoader.
type ScriptOption func(*ScriptLoader)

// ScriptWithEnvironment backs process.env with env.
func ScriptWithEnvironment(env Environment) ScriptOption {
	return func(l *ScriptLoader) {
		if env != nil {
			l.env = env
		}
	}
}

// ScriptWithTimeout interrupts modules that run longer than timeout.
func ScriptWithTimeout(timeout time.Duration) ScriptOption {
	return func(l *ScriptLoader) {
		l.timeout = timeout
	}
}

// NewScriptLoader constructs a ScriptLoader reading the process environment.
func NewScriptLoader(opts ...ScriptOption) *ScriptLoader {
	l := &ScriptLoader{env: OSEnvironment{}}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load implements Loader. Exports that are undefined, null or not an object
// produce an empty mapping.
func (l *ScriptLoader) Load(path string) (map[string]any, error) {
	source, err := osReadFile(path)
	if err != nil {
		return nil, err
	}
	program, err := goja.Compile(path, wrapModule(string(source)), false)
	if err != nil {
		return nil, err
	}

	vm := goja.New()
	if l.timeout > 0 {
		timer := time.AfterFunc(l.timeout, func() {
			vm.Interrupt(fmt.Sprintf("module did not finish within %s", l.timeout))
		})
		defer timer.Stop()
	}

	factory, err := vm.RunProgram(program)
	if err != nil {
		return nil, err
	}
	call, ok := goja.AssertFunction(factory)
	if !ok {
		return nil, fmt.Errorf("module wrapper is not callable")
	}

	module := vm.NewObject()
	exports := vm.NewObject()
	if err := module.Set("exports", exports); err != nil {
		return nil, err
	}
	process := vm.NewObject()
	if err := process.Set("env", vm.NewDynamicObject(&envObject{vm: vm, env: l.env})); err != nil {
		return nil, err
	}

	if _, err := call(goja.Undefined(),
		module,
		exports,
		vm.ToValue(path),
		vm.ToValue(filepath.Dir(path)),
		process,
	); err != nil {
		return nil, err
	}
	return exportMapping(module.Get("exports")), nil
}

func wrapModule(source string) string {
	return "(function (module, exports, __filename, __dirname, process) {" + source + "\n})"
}

func exportMapping(value goja.Value) map[string]any {
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return nil
	}
	values, ok := value.Export().(map[string]any)
	if !ok {
		return nil
	}
	return values
}

// envObject exposes an Environment to scripts without allowing writes.
type envObject struct {
	vm  *goja.Runtime
	env Environment
}

func (o *envObject) Get(key string) goja.Value {
	if value, ok := o.env.LookupEnv(key); ok {
		return o.vm.ToValue(value)
	}
	return goja.Undefined()
}

func (o *envObject) Set(string, goja.Value) bool { return false }

func (o *envObject) Has(key string) bool {
	_, ok := o.env.LookupEnv(key)
	return ok
}

func (o *envObject) Delete(string) bool { return false }

func (o *envObject) Keys() []string { return nil }
