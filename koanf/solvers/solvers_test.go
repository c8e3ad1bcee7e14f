package solvers

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, values map[string]any) *koanf.Koanf {
	t.Helper()
	k := koanf.New(".")
	require.NoError(t, k.Load(confmap.Provider(values, "."), nil))
	return k
}

func TestVariablesSolver(t *testing.T) {
	k := load(t, map[string]any{
		"vars": map[string]any{"base": 128, "name": "widget"},
		"options": map[string]any{
			"ItemCount": map[string]any{"default": "${vars.base}"},
			"Label":     map[string]any{"default": "${vars.name}-label"},
			"Missing":   map[string]any{"default": "${vars.nope}"},
			"Open":      map[string]any{"default": "${vars.base"},
		},
	})

	out := NewVariablesSolver("${", "}").Solve(k)

	assert.Equal(t, 128, out.Get("options.ItemCount.default"))
	assert.Equal(t, "widget-label", out.Get("options.Label.default"))
	assert.Equal(t, "${vars.nope}", out.Get("options.Missing.default"))
	assert.Equal(t, "${vars.base", out.Get("options.Open.default"))
}

func TestVariablesSolver_SelfReference(t *testing.T) {
	k := load(t, map[string]any{"a": "${a}"})
	out := NewVariablesSolver("${", "}").Solve(k)
	assert.Equal(t, "${a}", out.Get("a"))
}

func TestExpressionSolver(t *testing.T) {
	k := load(t, map[string]any{
		"vars": map[string]any{"base": 128},
		"options": map[string]any{
			"ItemCount":   map[string]any{"default": "{{ vars.base * 2 }}"},
			"VerboseLogs": map[string]any{"default": `{{ vars.base > 100 }}`},
			"Label":       map[string]any{"default": "prefix {{ 1 + 1 }}"},
		},
	})

	out := NewExpressionSolver("", "").Solve(k)

	assert.EqualValues(t, 256, out.Get("options.ItemCount.default"))
	assert.Equal(t, true, out.Get("options.VerboseLogs.default"))
	assert.Equal(t, "prefix {{ 1 + 1 }}", out.Get("options.Label.default"))
}

func TestExpressionSolver_ErrorHandlers(t *testing.T) {
	t.Run("leave unchanged", func(t *testing.T) {
		k := load(t, map[string]any{"bad": "{{ }}"})
		out := NewExpressionSolver("{{", "}}").Solve(k)
		assert.Equal(t, "{{ }}", out.Get("bad"))
	})

	t.Run("custom", func(t *testing.T) {
		var keys []string
		handler := func(key string, _ string, err error) {
			require.Error(t, err)
			keys = append(keys, key)
		}
		k := load(t, map[string]any{"bad": "{{ }}", "good": "{{ 1 + 1 }}"})
		out := NewExpressionSolverWithEvaluator("{{", "}}", nil, handler).Solve(k)
		assert.Equal(t, []string{"bad"}, keys)
		assert.Equal(t, "{{ }}", out.Get("bad"))
	})
}

func TestURISolver(t *testing.T) {
	fsys := fstest.MapFS{
		"docs/item_count.md": &fstest.MapFile{Data: []byte("Number of items to allocate.\n")},
	}
	k := load(t, map[string]any{
		"options": map[string]any{
			"ItemCount": map[string]any{"doc": "@file://docs/item_count.md"},
			"Missing":   map[string]any{"doc": "@file://docs/nope.md"},
			"Home":      map[string]any{"doc": "@env://OPTARG_TEST_DOC"},
			"Plain":     map[string]any{"doc": "mail me @ file"},
		},
	})

	s := NewURISolverWithFS("@", "://", fsys).(*uris)
	s.lookupEnv = func(name string) (string, bool) {
		if name == "OPTARG_TEST_DOC" {
			return "from env", true
		}
		return "", false
	}
	out := s.Solve(k)

	assert.Equal(t, "Number of items to allocate.", out.Get("options.ItemCount.doc"))
	assert.Equal(t, "@file://docs/nope.md", out.Get("options.Missing.doc"))
	assert.Equal(t, "from env", out.Get("options.Home.doc"))
	assert.Equal(t, "mail me @ file", out.Get("options.Plain.doc"))
}

func TestSolveFileProtocol(t *testing.T) {
	fsys := fstest.MapFS{"v.txt": &fstest.MapFile{Data: []byte("1.2.3\n\n")}}

	got, err := SolveFileProtocol(fsys, "v.txt")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", got)

	_, err = SolveFileProtocol(fsys, "none.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSolvers_NilConfig(t *testing.T) {
	assert.Nil(t, NewVariablesSolver("${", "}").Solve(nil))
	assert.Nil(t, NewExpressionSolver("", "").Solve(nil))
	assert.Nil(t, NewURISolver("@", "://").Solve(nil))
}
