package solvers

import (
	"strings"

	"github.com/knadh/koanf/v2"
)

type variables struct {
	delimiters delimiters
}

// NewVariablesSolver replaces ${path} references with the value stored at path.
// A value made only of the reference keeps the referenced type.
func NewVariablesSolver(start, end string) ConfigSolver {
	return &variables{delimiters: delimiters{Start: start, End: end}}
}

func (s variables) Solve(config *koanf.Koanf) *koanf.Koanf {
	if config == nil {
		return config
	}
	stringValues(config, func(key, val string) {
		s.keypath(key, val, config)
	})
	return config
}

func (s variables) keypath(key, val string, config *koanf.Koanf) {
	open := strings.Index(val, s.delimiters.Start)
	if open == -1 {
		return
	}
	rest := val[open+len(s.delimiters.Start):]
	end := strings.Index(rest, s.delimiters.End)
	if end == -1 {
		return
	}

	path := rest[:end]
	if path == "" || path == key || !config.Exists(path) {
		return
	}

	replacement := config.Get(path)
	before := val[:open]
	after := rest[end+len(s.delimiters.End):]
	if before == "" && after == "" {
		config.Set(key, replacement)
		return
	}
	config.Set(key, before+ToString(replacement)+after)
}
