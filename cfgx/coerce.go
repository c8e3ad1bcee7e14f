package cfgx

import (
	"fmt"
	"math"
	"reflect"
)

// Coerce converts a single loosely typed scalar into T. Strings are parsed, numbers are
// narrowed with a range check, and durations accept both "1m30s" and nanoseconds.
func Coerce[T any](raw any) (T, error) {
	out, err := Build[T](raw)
	if err != nil {
		return out, err
	}
	if err := checkRange(raw, out); err != nil {
		var zero T
		return zero, fail(StageDecode, ErrDecode, err, map[string]any{"reason": "range"})
	}
	return out, nil
}

// checkRange catches silent truncation, e.g. 300 decoded into a uint8 or 2.5 into an int.
func checkRange(raw, out any) error {
	in := reflect.ValueOf(raw)
	res := reflect.ValueOf(out)
	if !in.IsValid() || !res.IsValid() {
		return nil
	}

	var f float64
	switch in.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f = float64(in.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f = float64(in.Uint())
	case reflect.Float32, reflect.Float64:
		f = in.Float()
	default:
		return nil
	}

	var got float64
	switch res.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		got = float64(res.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		got = float64(res.Uint())
	case reflect.Float32:
		if math.Abs(f) > math.MaxFloat32 {
			return fmt.Errorf("cfgx: %v overflows %s", raw, res.Type())
		}
		return nil
	default:
		return nil
	}
	if got != f {
		return fmt.Errorf("cfgx: %v does not fit %s", raw, res.Type())
	}
	return nil
}
