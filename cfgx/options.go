package cfgx

// Option tunes a single Build call.
type Option[T any] func(*settings[T])

type settings[T any] struct {
	defaults    T
	hasDefaults bool
	preprocess  []Preprocessor
	tag         string
	strict      bool
}

// WithDefaults seeds the result with a deep copy of value. The last call wins.
func WithDefaults[T any](value T) Option[T] {
	return func(s *settings[T]) {
		s.defaults = value
		s.hasDefaults = true
	}
}

// WithPreprocess appends preprocessors. Nil entries are skipped.
func WithPreprocess[T any](pre ...Preprocessor) Option[T] {
	return func(s *settings[T]) {
		for _, p := range pre {
			if p != nil {
				s.preprocess = append(s.preprocess, p)
			}
		}
	}
}

// WithStrictKeys rejects input keys that do not map onto a field.
func WithStrictKeys[T any]() Option[T] {
	return func(s *settings[T]) {
		s.strict = true
	}
}

// WithTagName sets the struct tag read while decoding. Empty keeps "mapstructure".
func WithTagName[T any](tag string) Option[T] {
	return func(s *settings[T]) {
		if tag != "" {
			s.tag = tag
		}
	}
}
