package main

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-optarg/config"
	"github.com/goliatone/go-optarg/gen"
	"github.com/goliatone/go-optarg/optarg"
)

// Settings are read, lowest precedence first, from built in defaults, the
// settings file, OPTGEN_* variables, flags and finally positional arguments.
type Settings struct {
	Inputs   []string `koanf:"input"`
	Output   string   `koanf:"output"`
	Package  string   `koanf:"package"`
	Manifest bool     `koanf:"manifest"`
	Workers  int      `koanf:"workers"`
	Strict   bool     `koanf:"strict"`
	Watch    bool     `koanf:"watch"`
	Verbose  bool     `koanf:"verbose"`
}

func defaultSettings() Settings {
	return Settings{
		Manifest: optarg.Static[gen.EmitManifest](),
		Workers:  optarg.Static[gen.Workers](),
		Strict:   optarg.Static[gen.Strict](),
	}
}

func (s *Settings) Validate() error {
	if len(s.Inputs) == 0 {
		return errors.New("no declaration files given", errors.CategoryBadInput).
			WithTextCode("NO_INPUT")
	}
	if s.Workers < 1 {
		return errors.New("workers must be at least 1", errors.CategoryValidation).
			WithTextCode("INVALID_WORKERS").
			WithMetadata(map[string]any{"workers": s.Workers})
	}
	return nil
}

// RunnerOptions maps the settings onto generator options.
func (s *Settings) RunnerOptions(extra ...gen.RunnerOption) []gen.RunnerOption {
	opts := []gen.RunnerOption{
		optarg.New[gen.Workers](s.Workers),
		optarg.New[gen.OutputDir](s.Output),
		optarg.New[gen.PackageName](s.Package),
		optarg.New[gen.EmitManifest](s.Manifest),
		optarg.New[gen.Strict](s.Strict),
	}
	return append(opts, extra...)
}

func newFlagSet() *pflag.FlagSet {
	def := defaultSettings()

	fs := pflag.NewFlagSet("optgen", pflag.ContinueOnError)
	fs.String("config", config.DefaultConfigFilepath, "settings file (json, jsonc, yaml or toml)")
	fs.StringP("output", "o", "", "output directory, defaults to each document's directory")
	fs.StringP("package", "p", "", "override the package name of every document")
	fs.Bool("manifest", def.Manifest, "write a JSON manifest next to each generated file")
	fs.IntP("workers", "w", def.Workers, "documents generated concurrently")
	fs.Bool("strict", def.Strict, "reject unknown keys in declaration documents")
	fs.Bool("watch", false, "regenerate when a document changes")
	fs.BoolP("verbose", "v", false, "log debug output")
	return fs
}

func loadSettings(ctx context.Context, args []string) (*Settings, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	path, _ := fs.GetString("config")

	s := &Settings{}
	providers := []config.ProviderBuilder[*Settings]{
		config.StructProvider[*Settings](defaultSettings()),
		config.OptionalProvider(config.FileProvider[*Settings](path)),
		config.EnvProvider[*Settings](config.DefaultEnvPrefix, config.DefaultEnvDelimiter),
		config.FlagsProvider[*Settings](fs),
	}
	if inputs := fs.Args(); len(inputs) > 0 {
		providers = append(providers, config.DefaultValuesProvider[*Settings](
			map[string]any{"input": inputs},
			config.PriorityFlags.WithOffset(1),
		))
	}

	c := config.New(s).
		WithConfigPath("").
		WithSolverPasses(2).
		WithProvider(providers...)
	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
