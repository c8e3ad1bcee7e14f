package config

import (
	"context"
	goerrors "errors"
	"os"
	"strings"
	"syscall"

	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-optarg/koanf/providers/env"
)

type ProviderBuilder[C Validable] func(*Container[C]) (Provider, error)

type ProviderType string

type Provider interface {
	Type() ProviderType
	Priority() int
	Validate() error
	Load(context.Context, *koanf.Koanf) error
}

type Loader struct {
	order        int
	providerType ProviderType
	load         func(context.Context, *koanf.Koanf) error
}

func (l *Loader) Priority() int {
	return l.order
}

func (l *Loader) Type() ProviderType {
	return l.providerType
}

func (l *Loader) Load(ctx context.Context, k *koanf.Koanf) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.load(ctx, k)
}

func (l *Loader) Validate() error {
	return l.providerType.validate()
}

const (
	ProviderTypeDefault   ProviderType = "default"
	ProviderTypeLocalFile ProviderType = "file"
	ProviderTypeBytes     ProviderType = "bytes"
	ProviderTypeEnv       ProviderType = "env"
	ProviderTypeFlag      ProviderType = "pflag"
	ProviderTypeStruct    ProviderType = "struct"
)

var validProviderTypes = []string{
	string(ProviderTypeDefault),
	string(ProviderTypeLocalFile),
	string(ProviderTypeBytes),
	string(ProviderTypeEnv),
	string(ProviderTypeFlag),
	string(ProviderTypeStruct),
}

type Priority int

// WithOffset places a provider relative to a base priority:
//
//	FileProvider[C]("optgen.yaml", PriorityConfig.WithOffset(-5)) // 15
func (p Priority) WithOffset(offset int) int {
	return int(p) + offset
}

var (
	PriorityDefaults Priority = 0
	PriorityStruct   Priority = 10
	PriorityConfig   Priority = 20
	PriorityEnv      Priority = 30
	PriorityFlags    Priority = 40
)

var (
	DefaultEnvPrefix    = "OPTGEN_"
	DefaultEnvDelimiter = "__" // single underscores stay inside key names
)

func (p ProviderType) String() string {
	return string(p)
}

func (p ProviderType) validate() error {
	for _, valid := range validProviderTypes {
		if string(p) == valid {
			return nil
		}
	}
	return errors.New("invalid loader type", errors.CategoryValidation).
		WithTextCode("INVALID_LOADER_TYPE").
		WithMetadata(map[string]any{
			"loader_type": string(p),
			"valid_types": validProviderTypes,
		})
}

func DefaultValuesProvider[C Validable](def map[string]any, order ...int) ProviderBuilder[C] {
	return func(c *Container[C]) (Provider, error) {
		kprovider := confmap.Provider(def, c.delimiter)
		return &Loader{
			providerType: ProviderTypeDefault,
			order:        getOrder(PriorityDefaults, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				if err := k.Load(kprovider, nil); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load default values").
						WithTextCode("DEFAULT_VALUES_LOAD_FAILED").
						WithMetadata(map[string]any{
							"values_count": len(def),
						})
				}
				return nil
			},
		}, nil
	}
}

// FileProvider loads a json, jsonc, yaml or toml file, picking the parser from
// the file extension.
func FileProvider[C Validable](filepath string, orders ...int) ProviderBuilder[C] {
	filetype := InferFileType(filepath)

	return func(c *Container[C]) (Provider, error) {
		parser := filetype.Parser()

		return &Loader{
			providerType: ProviderTypeLocalFile,
			order:        getOrder(PriorityConfig, orders...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				c.logger.Debug("file provider %s (%s)", filepath, filetype)

				var kprovider koanf.Provider = file.Provider(filepath)
				if filetype == FileTypeJSONC {
					raw, err := os.ReadFile(filepath)
					if err != nil {
						return errors.Wrap(err, errors.CategoryOperation, "failed to read configuration file").
							WithTextCode("FILE_READ_FAILED").
							WithMetadata(map[string]any{"filepath": filepath})
					}
					kprovider = rawbytes.Provider(filetype.Clean(raw))
				}

				merger := koanf.WithMergeFunc(MergeSkippingEmpty)
				if err := k.Load(kprovider, parser, merger); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from file").
						WithTextCode("FILE_LOAD_FAILED").
						WithMetadata(map[string]any{
							"filepath":  filepath,
							"file_type": string(filetype),
						})
				}
				return nil
			},
		}, nil
	}
}

// BytesProvider loads an in memory document of the given type.
func BytesProvider[C Validable](data []byte, filetype FileType, orders ...int) ProviderBuilder[C] {
	return func(c *Container[C]) (Provider, error) {
		if err := filetype.Valid(); err != nil {
			return &Loader{}, err
		}
		parser := filetype.Parser()

		return &Loader{
			providerType: ProviderTypeBytes,
			order:        getOrder(PriorityConfig, orders...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				c.logger.Debug("bytes provider (%s, %d bytes)", filetype, len(data))
				merger := koanf.WithMergeFunc(MergeSkippingEmpty)
				if err := k.Load(rawbytes.Provider(filetype.Clean(data)), parser, merger); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from bytes").
						WithTextCode("BYTES_LOAD_FAILED").
						WithMetadata(map[string]any{
							"file_type": string(filetype),
							"size":      len(data),
						})
				}
				return nil
			},
		}, nil
	}
}

// EnvProvider loads variables starting with prefix; delim separates nested keys,
// e.g. OPTGEN_LOG__LEVEL becomes log.level.
func EnvProvider[C Validable](prefix, delim string, order ...int) ProviderBuilder[C] {
	return func(c *Container[C]) (Provider, error) {
		return &Loader{
			providerType: ProviderTypeEnv,
			order:        getOrder(PriorityEnv, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				kprov := env.Provider(prefix, ".", func(s string) string {
					return strings.ReplaceAll(strings.ToLower(
						strings.TrimPrefix(s, prefix)), delim, ".")
				})
				kprov.SetLogger(c.logger)

				c.logger.Debug("env provider %s", prefix)
				merger := koanf.WithMergeFunc(MergeSkippingEmpty)
				if err := k.Load(kprov, json.Parser(), merger); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load environment variables").
						WithTextCode("ENV_LOAD_FAILED").
						WithMetadata(map[string]any{
							"prefix":    prefix,
							"delimiter": delim,
						})
				}
				return nil
			},
		}, nil
	}
}

// FlagsProvider loads flags from a parsed flagset. Flags left at their default
// value only fill keys no earlier provider set.
func FlagsProvider[C Validable](flagset *pflag.FlagSet, order ...int) ProviderBuilder[C] {
	return func(c *Container[C]) (Provider, error) {
		if flagset == nil {
			return &Loader{}, errors.New("flagset cannot be nil", errors.CategoryBadInput).
				WithTextCode("NIL_FLAGSET")
		}

		return &Loader{
			providerType: ProviderTypeFlag,
			order:        getOrder(PriorityFlags, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				c.logger.Debug("flags provider")
				prv := posflag.Provider(flagset, c.delimiter, k)
				if err := k.Load(prv, nil); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from posix flags").
						WithTextCode("FLAGS_LOAD_FAILED").
						WithMetadata(map[string]any{
							"delimiter": c.delimiter,
						})
				}
				return nil
			},
		}, nil
	}
}

// StructProvider loads the koanf tagged fields of v.
func StructProvider[C Validable](v any, order ...int) ProviderBuilder[C] {
	return func(c *Container[C]) (Provider, error) {
		if v == nil {
			return &Loader{}, errors.New("struct cannot be nil", errors.CategoryBadInput).
				WithTextCode("NIL_STRUCT")
		}

		kprv := structs.Provider(v, "koanf")
		return &Loader{
			providerType: ProviderTypeStruct,
			order:        getOrder(PriorityStruct, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				c.logger.Debug("struct provider")
				merger := koanf.WithMergeFunc(MergeSkippingEmpty)
				if err := k.Load(kprv, nil, merger); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from struct").
						WithTextCode("STRUCT_LOAD_FAILED")
				}
				return nil
			},
		}, nil
	}
}

type ErrorFilter func(err error) bool

func DefaultErrorFilter(allowedErrors ...error) ErrorFilter {
	return func(err error) bool {
		if err == nil {
			return false
		}

		if len(allowedErrors) == 0 {
			// absent files are fine, a broken one is not
			return os.IsNotExist(err) || goerrors.Is(err, syscall.ENOENT) || goerrors.Is(err, os.ErrNotExist)
		}

		for _, allowed := range allowedErrors {
			if goerrors.Is(err, allowed) {
				return true
			}
		}

		return false
	}
}

// OptionalProvider wraps a provider so errors accepted by the filter are ignored.
func OptionalProvider[C Validable](f ProviderBuilder[C], errIgnoreFuncs ...ErrorFilter) ProviderBuilder[C] {
	errIgnore := DefaultErrorFilter()
	if len(errIgnoreFuncs) > 0 && errIgnoreFuncs[0] != nil {
		errIgnore = errIgnoreFuncs[0]
	}

	return func(c *Container[C]) (Provider, error) {
		base, err := f(c)
		if err != nil {
			return &Loader{}, err
		}

		return &Loader{
			providerType: base.Type(),
			order:        base.Priority(),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				if err := base.Load(ctx, k); err != nil && !errIgnore(err) {
					return err
				}
				return nil
			},
		}, nil
	}
}

func getOrder(defaultOrder Priority, orders ...int) int {
	if len(orders) > 0 {
		return orders[0]
	}
	return int(defaultOrder)
}
