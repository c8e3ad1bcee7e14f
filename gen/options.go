package gen

import (
	"time"

	"github.com/goliatone/go-optarg/logger"
	"github.com/goliatone/go-optarg/optarg"
)

// RunnerOption configures a Runner. Every option type below also works as a
// plain argument to Load, LoadBytes and Watch where it applies.
type RunnerOption = optarg.Setter[Runner]

// Workers bounds the number of documents generated at once.
type Workers struct{ optarg.Value[int] }

func (Workers) Default() int { return 4 }

func (o Workers) Apply(r *Runner) { r.workers = max(1, optarg.Payload(o)) }

// OutputDir is where generated files go. Empty means next to each document.
type OutputDir struct{ optarg.Value[string] }

func (o OutputDir) Apply(r *Runner) { r.outDir = optarg.Payload(o) }

// PackageName overrides the package declared by each document.
type PackageName struct{ optarg.Value[string] }

func (o PackageName) Apply(r *Runner) { r.pkg = optarg.Payload(o) }

// EmitManifest writes a JSON manifest next to each generated file.
type EmitManifest struct{ optarg.Value[bool] }

func (EmitManifest) Default() bool { return true }

func (o EmitManifest) Apply(r *Runner) { r.manifest = optarg.Payload(o) }

// Strict rejects unknown keys in declaration documents.
type Strict struct{ optarg.Value[bool] }

func (Strict) Default() bool { return true }

func (o Strict) Apply(r *Runner) { r.strict = optarg.Payload(o) }

// SolverPasses bounds how many times variables and expressions are re-solved,
// so a variable may reference an expression result.
type SolverPasses struct{ optarg.Value[int] }

func (SolverPasses) Default() int { return 2 }

// Debounce coalesces bursts of file events in Watch.
type Debounce struct{ optarg.Value[time.Duration] }

func (Debounce) Default() time.Duration { return 100 * time.Millisecond }

// Log routes generator and loader messages. A nil logger discards them.
type Log struct{ optarg.Value[logger.Logger] }

// WithLog wraps l, whatever its concrete type.
func WithLog(l logger.Logger) Log { return optarg.New[Log](l) }

func (Log) Default() logger.Logger { return logger.Nop{} }

func (o Log) Apply(r *Runner) { r.logger = resolveLogger(o) }

func resolveLogger(args ...any) logger.Logger {
	if l := optarg.ResolveDefault[Log](args...); l != nil {
		return l
	}
	return logger.Nop{}
}
