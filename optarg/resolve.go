package optarg

// Flag covers scalar types passed as options without a Value wrapper, typically
// enum-like constants.
type Flag interface {
	~bool | ~string |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Lookup returns the leftmost argument whose type is exactly T.
func Lookup[T any](args ...any) (T, bool) {
	for _, arg := range args {
		if t, ok := arg.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// Resolve returns the payload of the leftmost T in args, or the zero value of V
// when args holds no T. A matched T{} still yields its declared default.
func Resolve[T Option[V], V any](args ...any) V {
	if o, ok := Lookup[T](args...); ok {
		return Payload[T, V](o)
	}
	var zero V
	return zero
}

// ResolveDefault is ResolveOr with T's declared default as the fallback.
func ResolveDefault[T Option[V], V any](args ...any) V {
	var o T
	return ResolveOr[T, V](o.Default(), args...)
}

// ResolveOr returns the payload of the leftmost T in args, or def when args holds
// no T. def lets a caller substitute its own fallback for the declared one.
//
// ResolveOr covers wrapped options only. Scalar flags, where the argument itself
// is the payload, resolve through FlagOr; the two share Lookup, so both follow
// the same leftmost rule and either may appear in one argument list.
func ResolveOr[T Option[V], V any](def V, args ...any) V {
	if o, ok := Lookup[T](args...); ok {
		return Payload[T, V](o)
	}
	return def
}

// FlagOr returns the leftmost argument of scalar type T itself, or def.
func FlagOr[T Flag](def T, args ...any) T {
	if v, ok := Lookup[T](args...); ok {
		return v
	}
	return def
}

// Has reports whether args holds at least one T.
func Has[T any](args ...any) bool {
	_, ok := Lookup[T](args...)
	return ok
}

// Count returns how many arguments in args are of type T. Only the leftmost one
// takes part in resolution.
func Count[T any](args ...any) int {
	n := 0
	for _, arg := range args {
		if _, ok := arg.(T); ok {
			n++
		}
	}
	return n
}
