// Package hydrate converts loose preference mappings into typed structs.
package hydrate

import (
	"fmt"
	"maps"

	"github.com/mitchellh/mapstructure"
)

// DefaultTagName is the struct tag used to match payload keys to fields.
const DefaultTagName = "json"

// Context identifies the preferences being decoded.
type Context struct {
	Namespace string
	Source    string
}

// PreHook may rewrite the payload before decoding. Returning a nil map keeps
// the current payload.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook may adjust or validate the decoded value.
type PostHook[T any] func(Context, *T) error

// DecoderOption configures a Decoder.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts preference mappings into T with mapstructure.
type Decoder[T any] struct {
	preHooks    []PreHook
	postHooks   []PostHook[T]
	decodeHooks []mapstructure.DecodeHookFunc
	tagName     string
	weak        bool
	errorUnused bool
}

// WithPreHook runs hook before decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.preHooks = append(d.preHooks, hook)
		}
	}
}

// WithPostHook runs hook after decoding.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.postHooks = append(d.postHooks, hook)
		}
	}
}

// WithDecodeHook adds a mapstructure conversion hook. Hooks run in the order
// they are added.
func WithDecodeHook[T any](hook mapstructure.DecodeHookFunc) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.decodeHooks = append(d.decodeHooks, hook)
		}
	}
}

// WithWeaklyTypedInput lets strings fill numeric, boolean and slice fields.
func WithWeaklyTypedInput[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.weak = true
	}
}

// WithErrorUnused rejects payload keys T does not declare.
func WithErrorUnused[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.errorUnused = true
	}
}

// WithTagName matches payload keys against a different struct tag.
func WithTagName[T any](name string) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if name != "" {
			d.tagName = name
		}
	}
}

// NewDecoder constructs a Decoder.
func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{tagName: DefaultTagName}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts payload into T. The payload is deep copied first so hooks
// cannot mutate the caller's map. A nil payload decodes as empty.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var zero T

	current := clonePayload(payload)
	for _, hook := range d.preHooks {
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook for %s failed: %w", describe(ctx), err)
		}
		if next != nil {
			current = next
		}
	}

	var result T
	decoder, err := mapstructure.NewDecoder(d.config(&result))
	if err != nil {
		return zero, fmt.Errorf("hydrate: configure decoder for %s: %w", describe(ctx), err)
	}
	if err := decoder.Decode(current); err != nil {
		return zero, fmt.Errorf("hydrate: decode %s: %w", describe(ctx), err)
	}

	for _, hook := range d.postHooks {
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for %s failed: %w", describe(ctx), err)
		}
	}
	return result, nil
}

// Convert decodes a single value into target with the decoder's settings.
func (d *Decoder[T]) Convert(value, target any) error {
	decoder, err := mapstructure.NewDecoder(d.config(target))
	if err != nil {
		return err
	}
	return decoder.Decode(value)
}

func (d *Decoder[T]) config(result any) *mapstructure.DecoderConfig {
	cfg := &mapstructure.DecoderConfig{
		Result:           result,
		TagName:          d.tagName,
		WeaklyTypedInput: d.weak,
		ErrorUnused:      d.errorUnused,
	}
	if len(d.decodeHooks) > 0 {
		cfg.DecodeHook = mapstructure.ComposeDecodeHookFunc(d.decodeHooks...)
	}
	return cfg
}

func describe(ctx Context) string {
	if ctx.Source == "" {
		return fmt.Sprintf("namespace %q", ctx.Namespace)
	}
	return fmt.Sprintf("namespace %q (%s)", ctx.Namespace, ctx.Source)
}

func clonePayload(payload map[string]any) map[string]any {
	if payload == nil {
		return map[string]any{}
	}
	out := maps.Clone(payload)
	for key, value := range out {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return clonePayload(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}
