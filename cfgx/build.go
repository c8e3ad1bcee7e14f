package cfgx

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchellh/copystructure"
)

// Stage names one step of Build.
type Stage string

const (
	StageDefaults   Stage = "defaults"
	StagePreprocess Stage = "preprocess"
	StageDecode     Stage = "decode"
)

var (
	ErrDefaults   = errors.New("cfgx: defaults stage failed")
	ErrPreprocess = errors.New("cfgx: preprocess stage failed")
	ErrDecode     = errors.New("cfgx: decode stage failed")
)

// Preprocessor rewrites the raw tree before it is decoded.
type Preprocessor func(any) (any, error)

// StageError reports the stage that failed. It matches both the stage
// sentinel and the underlying error with errors.Is.
type StageError struct {
	Stage Stage
	Base  error
	Err   error
	Meta  map[string]any
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{e.Base, e.Err}
}

func fail(stage Stage, base, err error, meta map[string]any) *StageError {
	return &StageError{Stage: stage, Base: base, Err: err, Meta: meta}
}

// Build decodes input into a T. Defaults are cloned first, preprocessors run
// in registration order, then mapstructure decodes the result with the
// duration and text unmarshaler hooks. T may be a value or a pointer.
func Build[T any](input any, opts ...Option[T]) (T, error) {
	s := settings[T]{tag: "mapstructure"}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	var out T
	if s.hasDefaults {
		cloned, err := clone(s.defaults)
		if err != nil {
			return out, fail(StageDefaults, ErrDefaults, err, nil)
		}
		out = cloned
	}

	for i, pre := range s.preprocess {
		next, err := pre(input)
		if err != nil {
			var zero T
			return zero, fail(StagePreprocess, ErrPreprocess, err, map[string]any{"preprocessor_index": i})
		}
		input = next
	}

	if input == nil {
		return out, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          s.tag,
		WeaklyTypedInput: true,
		ErrorUnused:      s.strict,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(DefaultDecodeHooks()...),
		Result:           target(&out),
	})
	if err == nil {
		err = dec.Decode(input)
	}
	if err != nil {
		var zero T
		return zero, fail(StageDecode, ErrDecode, err, nil)
	}
	return out, nil
}

// target returns the pointer mapstructure writes into, allocating a nil
// pointer result first.
func target[T any](out *T) any {
	v := reflect.ValueOf(out).Elem()
	if v.Kind() != reflect.Pointer {
		return out
	}
	if v.IsNil() {
		v.Set(reflect.New(v.Type().Elem()))
	}
	return v.Interface()
}

func clone[T any](v T) (T, error) {
	c, err := copystructure.Copy(v)
	if err != nil {
		return v, err
	}
	out, ok := c.(T)
	if !ok {
		return v, fmt.Errorf("cfgx: clone of %T produced %T", v, c)
	}
	return out, nil
}
