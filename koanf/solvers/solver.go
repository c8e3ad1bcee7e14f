// Package solvers rewrites string values inside a loaded koanf tree. Declaration
// documents use them to share values between options:
//
//	vars:     {base: 128}
//	options:
//	  ItemCount: {type: int, default: "{{ vars.base * 2 }}"}
//	  Label:     {type: string, default: "${vars.name}", doc: "@file://label.md"}
package solvers

import (
	"fmt"

	"github.com/knadh/koanf/v2"
)

type ConfigSolver interface {
	Solve(config *koanf.Koanf) *koanf.Koanf
}

func ToString(v any) string {
	return fmt.Sprint(v)
}

type delimiters struct {
	Start string
	End   string
}

// stringValues visits every flattened string leaf of config.
func stringValues(config *koanf.Koanf, fn func(key, val string)) {
	for key, val := range config.All() {
		if s, ok := val.(string); ok {
			fn(key, s)
		}
	}
}
