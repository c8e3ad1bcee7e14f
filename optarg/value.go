package optarg

// Value holds the payload of one option. Option types embed it as their only field.
// The zero Value is unset, which reads as the declaring type's default.
type Value[V any] struct {
	v   V
	set bool
}

// Raw returns the stored payload along with the explicit-set flag.
func (o Value[V]) Raw() (V, bool) {
	return o.v, o.set
}

// IsSet reports whether the option was constructed with an explicit value.
func (o Value[V]) IsSet() bool {
	return o.set
}

// Default returns the zero value of V. Option types declare a default by defining
// their own Default method, which shadows this one.
func (Value[V]) Default() V {
	var zero V
	return zero
}

// Option is satisfied by every option type: a defined struct whose only field is an
// embedded Value[V].
type Option[V any] interface {
	~struct{ Value[V] }
	Default() V
}

// New returns an instance of T holding v.
//
// V is inferred from v before T's constraint is checked, so a value whose type
// differs from V, such as a concrete type stored in an interface-valued option,
// needs both type arguments: New[Out, fmt.Stringer](name("x")). Declaring a
// With<Name>(v V) constructor next to the option type hides this at call sites.
func New[T Option[V], V any](v V) T {
	return T(struct{ Value[V] }{Value: Value[V]{v: v, set: true}})
}

// Payload returns the value carried by o, or T's declared default when o was not
// constructed with an explicit value.
func Payload[T Option[V], V any](o T) V {
	if v, ok := struct{ Value[V] }(o).Value.Raw(); ok {
		return v
	}
	return o.Default()
}
