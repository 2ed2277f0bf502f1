package prefsink

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-prefsink/internal/hydrate"
	"github.com/mitchellh/mapstructure"
)

// DecodeOption configures Decode.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	strict      bool
	envFallback bool
}

// DecodeStrict rejects preference keys the target struct does not declare.
func DecodeStrict() DecodeOption {
	return func(cfg *decodeConfig) {
		cfg.strict = true
	}
}

// DecodeWithEnv fills struct fields the preference file leaves out from
// their environment variables.
func DecodeWithEnv() DecodeOption {
	return func(cfg *decodeConfig) {
		cfg.envFallback = true
	}
}

// Decode hydrates the jar's values into T, matching keys against the json
// tags of T. Strings convert to numbers, booleans, durations and
// comma-separated slices.
func Decode[T any](jar *Jar, opts ...DecodeOption) (T, error) {
	cfg := decodeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	decoderOpts := []hydrate.DecoderOption[T]{
		hydrate.WithWeaklyTypedInput[T](),
		hydrate.WithDecodeHook[T](mapstructure.StringToTimeDurationHookFunc()),
		hydrate.WithDecodeHook[T](mapstructure.StringToSliceHookFunc(",")),
	}
	if cfg.strict {
		decoderOpts = append(decoderOpts, hydrate.WithErrorUnused[T]())
	}
	decoder := hydrate.NewDecoder(decoderOpts...)
	if cfg.envFallback {
		decoder = hydrate.NewDecoder(append(decoderOpts, hydrate.WithPreHook[T](envFallbackHook(jar, decoder, reflect.TypeFor[T]())))...)
	}

	ctx := hydrate.Context{Namespace: jar.namespace, Source: jar.source}
	return decoder.Decode(ctx, jar.values)
}

// converter turns one raw environment value into a field's type.
type converter interface {
	Convert(value, target any) error
}

func envFallbackHook(jar *Jar, conv converter, target reflect.Type) hydrate.PreHook {
	return func(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
		for target.Kind() == reflect.Pointer {
			target = target.Elem()
		}
		if target.Kind() != reflect.Struct {
			return payload, nil
		}
		for i := 0; i < target.NumField(); i++ {
			field := target.Field(i)
			name, ok := jsonFieldName(field)
			if !ok || hasKeyFold(payload, name) {
				continue
			}
			variable := jar.EnvVarName(name)
			raw, set := jar.cfg.env.LookupEnv(variable)
			if !set {
				continue
			}
			value := reflect.New(field.Type)
			if err := conv.Convert(raw, value.Interface()); err != nil {
				return nil, fmt.Errorf("%s: %w", variable, err)
			}
			payload[name] = value.Elem().Interface()
		}
		return payload, nil
	}
}

// hasKeyFold reports whether payload sets name. Field matching ignores case,
// so a file key differing only in case still counts.
func hasKeyFold(payload map[string]any, name string) bool {
	if _, ok := payload[name]; ok {
		return true
	}
	for key := range payload {
		if strings.EqualFold(key, name) {
			return true
		}
	}
	return false
}

func jsonFieldName(field reflect.StructField) (string, bool) {
	if !field.IsExported() {
		return "", false
	}
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	return name, true
}
