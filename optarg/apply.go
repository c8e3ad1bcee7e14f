package optarg

// Setter is implemented by the option types a target accepts at construction.
type Setter[T any] interface {
	Apply(*T)
}

// Apply hands each option to target in call order and returns target. Options of
// distinct types commute; for repeated types the last one applied wins. Nil
// options are skipped.
func Apply[T any, O Setter[T]](target *T, opts ...O) *T {
	for _, opt := range opts {
		if any(opt) == nil {
			continue
		}
		opt.Apply(target)
	}
	return target
}
