package optarg

// Static resolves T from its type alone. Generic types parameterized by option
// types use it to read the values those types declare.
func Static[T Option[V], V any]() V {
	var o T
	return o.Default()
}
