package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-optarg/cfgx"
	"github.com/goliatone/go-optarg/logger"
)

type testSettings struct {
	Name    string   `koanf:"name"`
	Output  string   `koanf:"output"`
	Workers int      `koanf:"workers"`
	Inputs  []string `koanf:"input"`
	Log     struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func (s testSettings) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestContainerLoadFromFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "optgen.json", `{"name": "gen", "output": "out", "log": {"level": "debug"}}`},
		{"jsonc", "optgen.jsonc", "{\n// settings\n\"name\": \"gen\", \"output\": \"out\", \"log\": {\"level\": \"debug\"}}"},
		{"yaml", "optgen.yaml", "name: gen\noutput: out\nlog:\n  level: debug\n"},
		{"toml", "optgen.toml", "name = \"gen\"\noutput = \"out\"\n[log]\nlevel = \"debug\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &testSettings{}
			container := New(cfg).WithConfigPath(writeFile(t, tt.file, tt.content))

			require.NoError(t, container.Load(context.Background()))
			assert.Equal(t, "gen", cfg.Name)
			assert.Equal(t, "out", cfg.Output)
			assert.Equal(t, "debug", cfg.Log.Level)
			assert.Same(t, cfg, container.Raw())
		})
	}
}

func TestContainerMissingDefaultFileIsOptional(t *testing.T) {
	cfg := &testSettings{Name: "preset"}
	container := New(cfg).WithConfigPath(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, container.Load(context.Background()))
	assert.Equal(t, "preset", cfg.Name)
}

func TestContainerBrokenFileFails(t *testing.T) {
	cfg := &testSettings{}
	container := New(cfg).WithConfigPath(writeFile(t, "optgen.json", `{"name": `))

	err := container.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration from source")
}

func TestEnvProvider(t *testing.T) {
	t.Setenv("OPTGEN_NAME", "env-name")
	t.Setenv("OPTGEN_LOG__LEVEL", "warn")
	t.Setenv("OPTGEN_INPUT__0", "a.yaml")
	t.Setenv("OPTGEN_INPUT__1", "b.yaml")

	cfg := &testSettings{}
	container := New(cfg).
		WithConfigPath("").
		WithProvider(EnvProvider[*testSettings](DefaultEnvPrefix, DefaultEnvDelimiter))

	require.NoError(t, container.Load(context.Background()))
	assert.Equal(t, "env-name", cfg.Name)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, cfg.Inputs)
}

func TestFlagsProvider(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("name", "flag-default", "usage")
	fs.String("log.level", "info", "usage")
	require.NoError(t, fs.Parse([]string{"--log.level=error"}))

	cfg := &testSettings{}
	container := New(cfg).
		WithConfigPath("").
		WithProvider(FlagsProvider[*testSettings](fs))

	require.NoError(t, container.Load(context.Background()))
	assert.Equal(t, "flag-default", cfg.Name)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestFlagsProviderNil(t *testing.T) {
	container := New(&testSettings{}).
		WithConfigPath("").
		WithProvider(FlagsProvider[*testSettings](nil))

	err := container.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create provider")
}

func TestProviderPrecedence(t *testing.T) {
	path := writeFile(t, "optgen.yaml", "name: file\noutput: file-out\nworkers: 2\n")
	t.Setenv("OPTGEN_OUTPUT", "env-out")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("workers", 1, "usage")
	fs.String("output", "", "usage")
	require.NoError(t, fs.Parse([]string{"--workers=8"}))

	cfg := &testSettings{}
	container := New(cfg).
		WithProvider(
			FlagsProvider[*testSettings](fs),
			EnvProvider[*testSettings](DefaultEnvPrefix, DefaultEnvDelimiter),
			FileProvider[*testSettings](path),
			StructProvider[*testSettings](testSettings{Name: "struct", Workers: 4}),
		)

	require.NoError(t, container.Load(context.Background()))
	assert.Equal(t, "file", cfg.Name)
	assert.Equal(t, "env-out", cfg.Output)
	assert.Equal(t, 8, cfg.Workers)
}

func TestDefaultValuesAndBytesProviders(t *testing.T) {
	cfg := &testSettings{}
	container := New(cfg).
		WithConfigPath("").
		WithProvider(
			DefaultValuesProvider[*testSettings](map[string]any{"name": "defaults", "workers": 3}),
			BytesProvider[*testSettings]([]byte("output: mem\n"), FileTypeYAML),
		)

	require.NoError(t, container.Load(context.Background()))
	assert.Equal(t, "defaults", cfg.Name)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "mem", cfg.Output)
}

func TestBytesProviderInvalidType(t *testing.T) {
	container := New(&testSettings{}).
		WithConfigPath("").
		WithProvider(BytesProvider[*testSettings]([]byte("x"), FileType("ini")))

	assert.Error(t, container.Load(context.Background()))
}

func TestContainerSolvers(t *testing.T) {
	data := []byte(`{"name": "gen", "base": "out", "output": "${base}/opts", "workers": "{{ 2 * 3 }}"}`)

	cfg := &testSettings{}
	container := New(cfg).
		WithConfigPath("").
		WithProvider(BytesProvider[*testSettings](data, FileTypeJSON))

	require.NoError(t, container.Load(context.Background()))
	assert.Equal(t, "out/opts", cfg.Output)
	assert.Equal(t, 6, cfg.Workers)
}

func TestContainerStrictDecode(t *testing.T) {
	data := []byte(`{"name": "gen", "unknown": true}`)

	loose := New(&testSettings{}).
		WithConfigPath("").
		WithProvider(BytesProvider[*testSettings](data, FileTypeJSON))
	require.NoError(t, loose.Load(context.Background()))

	strict := New(&testSettings{}).
		WithConfigPath("").
		WithStrictDecode(true).
		WithProvider(BytesProvider[*testSettings](data, FileTypeJSON))
	err := strict.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, cfgx.ErrDecode)
}

func TestContainerPreprocessAndNormalize(t *testing.T) {
	data := []byte(`{"name": "gen"}`)

	cfg := &testSettings{}
	container := New(cfg).
		WithConfigPath("").
		WithProvider(BytesProvider[*testSettings](data, FileTypeJSON)).
		WithPreprocess(func(in any) (any, error) {
			m := in.(map[string]any)
			m["output"] = "pre"
			return m, nil
		}).
		WithNormalizer(func(s *testSettings) error {
			if s.Workers == 0 {
				s.Workers = 1
			}
			return nil
		})

	require.NoError(t, container.Load(context.Background()))
	assert.Equal(t, "pre", cfg.Output)
	assert.Equal(t, 1, cfg.Workers)
}

func TestContainerValidation(t *testing.T) {
	container := New(&testSettings{}).WithConfigPath("")

	err := container.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")

	container.WithValidation(false)
	assert.NoError(t, container.Load(context.Background()))
}

func TestContainerTimeout(t *testing.T) {
	slow := func(c *Container[*testSettings]) (Provider, error) {
		return &Loader{
			providerType: ProviderTypeDefault,
			load: func(ctx context.Context, k *koanf.Koanf) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}, nil
	}

	container := New(&testSettings{Name: "x"}).
		WithConfigPath("").
		WithLogger(logger.Nop{}).
		WithTimeout(10 * time.Millisecond).
		WithProvider(slow)

	err := container.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOptionalProvider(t *testing.T) {
	dummyErr := errors.New("dummy error")
	dummyFactory := func(c *Container[testSettings]) (Provider, error) {
		return &Loader{
			providerType: ProviderTypeDefault,
			order:        1,
			load: func(ctx context.Context, k *koanf.Koanf) error {
				return dummyErr
			},
		}, nil
	}

	loader, err := OptionalProvider(dummyFactory, func(err error) bool {
		return errors.Is(err, dummyErr)
	})(nil)
	require.NoError(t, err)

	assert.Equal(t, 1, loader.Priority())
	assert.NoError(t, loader.Load(context.Background(), koanf.New(".")))
}

func TestProviderTypeValidate(t *testing.T) {
	assert.NoError(t, (&Loader{providerType: ProviderTypeBytes}).Validate())
	assert.Error(t, (&Loader{providerType: "ftp"}).Validate())
}

func TestPriorityWithOffset(t *testing.T) {
	assert.Equal(t, 15, PriorityConfig.WithOffset(-5))
	assert.Equal(t, 41, PriorityFlags.WithOffset(1))
}
