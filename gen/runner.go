package gen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goliatone/go-errors"
	"github.com/panjf2000/ants/v2"

	"github.com/goliatone/go-optarg/logger"
	"github.com/goliatone/go-optarg/optarg"
)

// Suffix is appended to a document's base name to form the generated file names.
const Suffix = "_optarg"

// Runner generates Go source for many declaration documents on a worker pool.
type Runner struct {
	workers  int
	outDir   string
	pkg      string
	manifest bool
	strict   bool
	logger   logger.Logger
}

// Result reports one document. Results keep the order of the paths given to Run.
type Result struct {
	Source   string
	Output   string
	Manifest string
	Err      error
}

// NewRunner returns a Runner with the declared option defaults, then applies
// opts in order.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		workers:  optarg.Static[Workers](),
		manifest: optarg.Static[EmitManifest](),
		strict:   optarg.Static[Strict](),
		logger:   optarg.Static[Log](),
	}
	return optarg.Apply(r, opts...)
}

// Run generates every document. The returned error summarizes failures; the
// per document errors are in the results.
func (r *Runner) Run(ctx context.Context, paths ...string) ([]Result, error) {
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	if err := r.checkOutputs(paths); err != nil {
		return results, err
	}

	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(min(r.workers, len(paths)), func(i any) {
		defer wg.Done()
		idx := i.(int)
		results[idx] = r.generate(ctx, paths[idx])
	}, ants.WithPreAlloc(true))
	if err != nil {
		return results, errors.Wrap(err, errors.CategoryOperation, "failed to create worker pool").
			WithTextCode("POOL_CREATE_FAILED").
			WithMetadata(map[string]any{"workers": r.workers})
	}
	defer pool.Release()

	for i := range paths {
		wg.Add(1)
		if err := pool.Invoke(i); err != nil {
			wg.Done()
			results[i] = Result{Source: paths[i], Err: err}
		}
	}
	wg.Wait()

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return results, errors.New("failed to generate options", errors.CategoryOperation).
			WithTextCode("GENERATION_FAILED").
			WithMetadata(map[string]any{
				"failed": failed,
				"total":  len(paths),
			})
	}
	return results, nil
}

func (r *Runner) generate(ctx context.Context, path string) Result {
	res := Result{Source: path}
	if res.Err = ctx.Err(); res.Err != nil {
		return res
	}

	args := []any{
		WithLog(r.logger),
		optarg.New[Strict](r.strict),
	}
	if r.pkg != "" {
		args = append(args, optarg.New[PackageName](r.pkg))
	}

	f, err := Load(ctx, path, args...)
	if err != nil {
		res.Err = err
		return res
	}

	src, err := Render(f)
	if err != nil {
		res.Err = err
		return res
	}

	res.Output = r.outputPath(path, ".go")
	if res.Err = writeFile(res.Output, src); res.Err != nil {
		return res
	}

	if r.manifest {
		m, err := Manifest(f)
		if err != nil {
			res.Err = err
			return res
		}
		res.Manifest = r.outputPath(path, ".json")
		if res.Err = writeFile(res.Manifest, m); res.Err != nil {
			return res
		}
	}

	r.logger.Info("generated %s from %s", res.Output, path)
	return res
}

func (r *Runner) outputPath(path, ext string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dir := r.outDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	return filepath.Join(dir, base+Suffix+ext)
}

// checkOutputs rejects inputs that would overwrite each other's output.
func (r *Runner) checkOutputs(paths []string) error {
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		out := r.outputPath(p, ".go")
		if prev, ok := seen[out]; ok {
			return errors.New("documents generate the same output file", errors.CategoryBadInput).
				WithTextCode("DUPLICATE_OUTPUT").
				WithMetadata(map[string]any{
					"output": out,
					"first":  prev,
					"second": p,
				})
		}
		seen[out] = p
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to create output directory").
			WithTextCode("OUTPUT_WRITE_FAILED").
			WithMetadata(map[string]any{"path": path})
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to write output").
			WithTextCode("OUTPUT_WRITE_FAILED").
			WithMetadata(map[string]any{"path": path})
	}
	return nil
}
