package config

import (
	"context"
	"reflect"
	"sort"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/v2"
	"github.com/mitchellh/copystructure"

	"github.com/goliatone/go-optarg/cfgx"
	"github.com/goliatone/go-optarg/koanf/solvers"
	"github.com/goliatone/go-optarg/logger"
)

var (
	DefaultDelimiter      = "."
	DefaultConfigFilepath = "optgen.yaml"
	DefaultLoadTimeout    = 30 * time.Second
)

type Validable interface {
	Validate() error
}

// Normalizer adjusts a decoded value before it is validated.
type Normalizer[C any] func(C) error

// Container loads layered providers into a typed value C. C is usually a
// pointer so the loaded value is visible through Raw and the caller's handle.
type Container[C Validable] struct {
	K            *koanf.Koanf
	base         C
	providers    []Provider
	loaders      []ProviderBuilder[C]
	mustValidate bool
	strictDecode bool
	loadTimeout  time.Duration
	delimiter    string
	configPath   string
	solvers      []solvers.ConfigSolver
	solverPasses int
	preprocess   []cfgx.Preprocessor
	normalizers  []Normalizer[C]
	logger       logger.Logger
}

func New[C Validable](c C) *Container[C] {
	mgr := &Container[C]{
		mustValidate: true,
		base:         c,
		delimiter:    DefaultDelimiter,
		loadTimeout:  DefaultLoadTimeout,
		configPath:   DefaultConfigFilepath,
		logger:       logger.NewDefaultLogger("config"),
		solverPasses: 1,
		solvers: []solvers.ConfigSolver{
			solvers.NewVariablesSolver("${", "}"),
			solvers.NewURISolver("@", "://"),
			solvers.NewExpressionSolver("{{", "}}"),
		},
	}

	mgr.newConfig()

	return mgr
}

func (c *Container[C]) newConfig() {
	c.K = koanf.NewWithConf(koanf.Conf{
		Delim:       c.delimiter,
		StrictMerge: false,
	})
}

func (c *Container[C]) WithValidation(v bool) *Container[C] {
	c.mustValidate = v
	return c
}

// WithStrictDecode rejects keys that have no matching field in C.
func (c *Container[C]) WithStrictDecode(enabled bool) *Container[C] {
	c.strictDecode = enabled
	return c
}

func (c *Container[C]) WithTimeout(timeout time.Duration) *Container[C] {
	c.loadTimeout = timeout
	return c
}

// WithConfigPath sets the file loaded when no provider is registered. An
// empty path disables the fallback.
func (c *Container[C]) WithConfigPath(p string) *Container[C] {
	c.configPath = p
	return c
}

// WithSolvers replaces the solver list, allowing explicit ordering.
func (c *Container[C]) WithSolvers(slvrs ...solvers.ConfigSolver) *Container[C] {
	c.solvers = append([]solvers.ConfigSolver{}, slvrs...)
	return c
}

// WithSolverPasses sets the maximum number of solver passes (minimum 1).
// Solving stops early once a pass leaves the configuration unchanged.
func (c *Container[C]) WithSolverPasses(passes int) *Container[C] {
	if passes < 1 {
		passes = 1
	}
	c.solverPasses = passes
	return c
}

// WithPreprocess registers functions run over the raw map before decoding.
func (c *Container[C]) WithPreprocess(pre ...cfgx.Preprocessor) *Container[C] {
	for _, p := range pre {
		if p != nil {
			c.preprocess = append(c.preprocess, p)
		}
	}
	return c
}

func (c *Container[C]) WithNormalizer(normalizers ...Normalizer[C]) *Container[C] {
	for _, n := range normalizers {
		if n != nil {
			c.normalizers = append(c.normalizers, n)
		}
	}
	return c
}

func (c *Container[C]) WithLogger(l logger.Logger) *Container[C] {
	if l != nil {
		c.logger = l
	}
	return c
}

func (c *Container[C]) WithProvider(factories ...ProviderBuilder[C]) *Container[C] {
	for _, factory := range factories {
		if factory != nil {
			c.loaders = append(c.loaders, factory)
		}
	}
	return c
}

func (c *Container[C]) Validate() error {
	if err := c.base.Validate(); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "configuration validation failed").
			WithTextCode("CONFIG_VALIDATION_FAILED")
	}
	return nil
}

func (c *Container[C]) Load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()

	// start from an empty tree so removed keys do not linger between loads
	c.newConfig()

	if err := c.buildProviders(); err != nil {
		return err
	}

	for i, src := range c.providers {
		if err := src.Validate(); err != nil {
			return errors.Wrap(err, errors.CategoryValidation, "invalid provider source type").
				WithTextCode("INVALID_PROVIDER_TYPE").
				WithMetadata(map[string]any{
					"source_type":    string(src.Type()),
					"provider_index": i,
				})
		}
	}

	sort.SliceStable(c.providers, func(i, j int) bool {
		return c.providers[i].Priority() < c.providers[j].Priority()
	})

	for i, source := range c.providers {
		c.logger.Debug("loading source %s", source.Type())
		if err := source.Load(ctx, c.K); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from source").
				WithTextCode("CONFIG_LOAD_FAILED").
				WithMetadata(map[string]any{
					"source_type":   string(source.Type()),
					"source_index":  i,
					"total_sources": len(c.providers),
				})
		}
	}

	c.solve()

	opts := []cfgx.Option[C]{
		cfgx.WithDefaults(c.base),
		cfgx.WithTagName[C]("koanf"),
		cfgx.WithPreprocess[C](c.preprocess...),
	}
	if c.strictDecode {
		opts = append(opts, cfgx.WithStrictKeys[C]())
	}

	decoded, err := cfgx.Build[C](c.K.Raw(), opts...)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to unmarshal configuration data").
			WithTextCode("CONFIG_UNMARSHAL_FAILED").
			WithMetadata(map[string]any{
				"delimiter":     c.delimiter,
				"strict_decode": c.strictDecode,
			})
	}
	c.assignBase(decoded)

	for i, normalize := range c.normalizers {
		if err := normalize(c.base); err != nil {
			return errors.Wrap(err, errors.CategoryValidation, "configuration normalization failed").
				WithTextCode("CONFIG_NORMALIZE_FAILED").
				WithMetadata(map[string]any{"normalizer_index": i})
		}
	}

	if c.mustValidate {
		return c.Validate()
	}
	return nil
}

func (c *Container[C]) buildProviders() error {
	c.providers = nil
	for i, factory := range c.loaders {
		provider, err := factory(c)
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to create provider").
				WithTextCode("PROVIDER_CREATION_FAILED").
				WithMetadata(map[string]any{
					"factory_index":   i,
					"total_factories": len(c.loaders),
				})
		}
		c.providers = append(c.providers, provider)
	}

	if len(c.providers) > 0 || c.configPath == "" {
		return nil
	}

	c.logger.Debug("no providers specified, loading %s if present", c.configPath)
	p, err := OptionalProvider(FileProvider[C](c.configPath))(c)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to create default file provider").
			WithTextCode("DEFAULT_PROVIDER_FAILED").
			WithMetadata(map[string]any{
				"config_path": c.configPath,
			})
	}
	c.providers = append(c.providers, p)
	return nil
}

func (c *Container[C]) solve() {
	if len(c.solvers) == 0 {
		return
	}
	for pass := 0; pass < c.solverPasses; pass++ {
		before, ok := snapshotConfig(c.K)
		for _, solver := range c.solvers {
			solver.Solve(c.K)
		}
		if ok && reflect.DeepEqual(before, c.K.Raw()) {
			return
		}
	}
}

// Raw returns the loaded value.
func (c *Container[C]) Raw() C {
	return c.base
}

// assignBase copies decoded into the caller's pointer when C is a pointer, so
// handles passed to New observe the loaded values.
func (c *Container[C]) assignBase(value C) {
	baseVal := reflect.ValueOf(&c.base).Elem()
	newVal := reflect.ValueOf(value)

	if baseVal.Kind() == reflect.Pointer && newVal.Kind() == reflect.Pointer && baseVal.Type() == newVal.Type() {
		if baseVal.IsNil() || newVal.IsNil() {
			baseVal.Set(newVal)
			return
		}
		baseVal.Elem().Set(newVal.Elem())
		return
	}
	baseVal.Set(newVal)
}

func snapshotConfig(k *koanf.Koanf) (any, bool) {
	raw := k.Raw()
	cloned, err := copystructure.Copy(raw)
	if err != nil {
		return raw, false
	}
	return cloned, true
}
