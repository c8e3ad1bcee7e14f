package solvers

import (
	"cmp"
	"strings"

	opts "github.com/goliatone/go-options"
	"github.com/knadh/koanf/v2"

	"github.com/goliatone/go-optarg/logger"
)

// EvalErrorHandler is told about an expression that failed to evaluate. The
// value stays as written either way.
type EvalErrorHandler func(key, expr string, err error)

type expression struct {
	start, end string
	eval       opts.Evaluator
	onError    EvalErrorHandler
}

// NewExpressionSolver evaluates values wrapped entirely by the delimiters
// (default {{ }}) against the whole tree, e.g. "{{ vars.base * 2 }}".
func NewExpressionSolver(start, end string) ConfigSolver {
	return NewExpressionSolverWithEvaluator(start, end, nil, nil)
}

// NewExpressionSolverWithEvaluator uses eval instead of the expr-lang
// evaluator and reports failures to onErr. Both may be nil.
func NewExpressionSolverWithEvaluator(start, end string, eval opts.Evaluator, onErr EvalErrorHandler) ConfigSolver {
	s := &expression{
		start:   cmp.Or(start, "{{"),
		end:     cmp.Or(end, "}}"),
		eval:    eval,
		onError: onErr,
	}
	if s.eval == nil {
		s.eval = opts.NewExprEvaluator()
	}
	return s
}

func (s *expression) Solve(config *koanf.Koanf) *koanf.Koanf {
	if config == nil {
		return nil
	}
	stringValues(config, func(key, val string) {
		inner, ok := strings.CutPrefix(val, s.start)
		if !ok {
			return
		}
		if inner, ok = strings.CutSuffix(inner, s.end); !ok {
			return
		}

		expr := strings.TrimSpace(inner)
		result, err := s.eval.Evaluate(opts.RuleContext{Snapshot: config.Raw()}, expr)
		if err != nil {
			if s.onError != nil {
				s.onError(key, expr, err)
			}
			return
		}
		config.Set(key, result)
	})
	return config
}

// LogEvalErrors reports failed expressions as warnings.
func LogEvalErrors(l logger.Logger) EvalErrorHandler {
	return func(key, expr string, err error) {
		l.Warn("expression %q at %s failed: %v", expr, key, err)
	}
}
