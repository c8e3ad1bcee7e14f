package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-optarg/logger"
)

const decl = `package: opts
options:
  Size:
    type: int
    default: 8
`

func TestMain(m *testing.M) {
	logger.SetEnabled(false)
	os.Exit(m.Run())
}

func writeDecl(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(decl), 0o644))
	return path
}

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := loadSettings(context.Background(), []string{"--config", "missing.yaml", "a.yaml", "b.yaml"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.yaml", "b.yaml"}, s.Inputs)
	assert.Equal(t, 4, s.Workers)
	assert.True(t, s.Manifest)
	assert.True(t, s.Strict)
	assert.False(t, s.Watch)
	assert.Empty(t, s.Output)
}

func TestLoadSettingsLayering(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "optgen.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("input: [from-file.yaml]\noutput: file-out\nworkers: 2\nmanifest: false\n"), 0o644))

	t.Setenv("OPTGEN_OUTPUT", "env-out")
	t.Setenv("OPTGEN_PACKAGE", "envpkg")

	s, err := loadSettings(context.Background(), []string{"--config", cfg, "-w", "6"})
	require.NoError(t, err)

	assert.Equal(t, []string{"from-file.yaml"}, s.Inputs)
	assert.Equal(t, "env-out", s.Output)
	assert.Equal(t, "envpkg", s.Package)
	assert.Equal(t, 6, s.Workers)
	assert.False(t, s.Manifest)
}

func TestLoadSettingsValidation(t *testing.T) {
	_, err := loadSettings(context.Background(), []string{"--config", "missing.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no declaration files given")

	_, err = loadSettings(context.Background(), []string{"--config", "missing.yaml", "-w", "0", "a.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers must be at least 1")
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	path := writeDecl(t, dir, "sizes.yaml")

	code := run(context.Background(), []string{"--config", "missing.yaml", "-o", out, "-p", "sizes", path})
	assert.Equal(t, 0, code)

	src, err := os.ReadFile(filepath.Join(out, "sizes_optarg.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package sizes")
	assert.Contains(t, string(src), "func (Size) Default() int { return 8 }")
	assert.FileExists(t, filepath.Join(out, "sizes_optarg.json"))
}

func TestRunFailures(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, 2, run(context.Background(), []string{"--config", "missing.yaml"}))
	assert.Equal(t, 2, run(context.Background(), []string{"--unknown"}))
	assert.Equal(t, 1, run(context.Background(), []string{"--config", "missing.yaml", filepath.Join(dir, "nope.yaml")}))
	assert.Equal(t, 0, run(context.Background(), []string{"-h"}))
}
