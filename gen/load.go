package gen

import (
	"context"
	"os"
	"path/filepath"

	"github.com/goliatone/go-optarg/config"
	"github.com/goliatone/go-optarg/koanf/solvers"
	"github.com/goliatone/go-optarg/optarg"
)

// Load reads and validates the declaration document at path. The file type
// follows the extension: .yaml/.yml, .toml, .json or .jsonc.
//
// Accepted arguments: Log, Strict, SolverPasses, PackageName.
func Load(ctx context.Context, path string, args ...any) (*File, error) {
	refs := solvers.NewURISolverWithFS("@", "://", os.DirFS(filepath.Dir(path)))
	return load(ctx, path, config.FileProvider[*File](path), refs, args...)
}

// LoadBytes is Load for an in memory document; name picks the file type.
func LoadBytes(ctx context.Context, name string, data []byte, args ...any) (*File, error) {
	provider := config.BytesProvider[*File](data, config.InferFileType(name))
	return load(ctx, name, provider, solvers.NewURISolver("@", "://"), args...)
}

func load(ctx context.Context, source string, provider config.ProviderBuilder[*File], refs solvers.ConfigSolver, args ...any) (*File, error) {
	l := resolveLogger(args...)
	pkg := optarg.Resolve[PackageName](args...)

	f := &File{Source: source}
	c := config.New(f).
		WithConfigPath("").
		WithLogger(l).
		WithStrictDecode(optarg.ResolveDefault[Strict](args...)).
		WithSolverPasses(optarg.ResolveDefault[SolverPasses](args...)).
		WithSolvers(
			solvers.NewVariablesSolver("${", "}"),
			refs,
			solvers.NewExpressionSolverWithEvaluator("{{", "}}", nil, solvers.LogEvalErrors(l)),
		).
		WithPreprocess(expandShorthand).
		WithNormalizer(func(f *File) error {
			if pkg != "" {
				f.Package = pkg
			}
			return nil
		}).
		WithProvider(provider)

	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	l.Debug("loaded %s: %d options, %d flags", source, len(f.Options), len(f.Flags))
	return f, nil
}

// expandShorthand accepts "Name: type" for options and "Name: [A, B]" for
// int flags.
func expandShorthand(in any) (any, error) {
	raw, ok := in.(map[string]any)
	if !ok {
		return in, nil
	}
	if options, ok := raw["options"].(map[string]any); ok {
		for name, v := range options {
			if typ, ok := v.(string); ok {
				options[name] = map[string]any{"type": typ}
			}
		}
	}
	if flags, ok := raw["flags"].(map[string]any); ok {
		for name, v := range flags {
			if values, ok := v.([]any); ok {
				flags[name] = map[string]any{"type": string(TypeInt), "values": values}
			}
		}
	}
	return raw, nil
}
