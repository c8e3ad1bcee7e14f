// Package env is a koanf provider for environment variables that understands
// array indices, so list settings can come from the environment:
//
//	OPTGEN_INPUT__0=api/options.yaml
//	OPTGEN_INPUT__1=store/options.toml
//	OPTGEN_WORKERS=4
//
// yields {"input": ["api/options.yaml", "store/options.toml"], "workers": "4"}.
package env

import (
	"errors"
	"os"
	"sort"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/goliatone/go-optarg/logger"
)

// Env implements koanf.Provider through ReadBytes; pair it with the json parser.
type Env struct {
	prefix  string
	delim   string
	cb      func(key string) string
	environ func() []string
	logger  logger.Logger
}

// Provider captures variables starting with prefix (case sensitive). cb maps the
// variable name to a key path separated by delim; a blank result drops the variable.
// Without cb the raw name is used.
func Provider(prefix, delim string, cb func(s string) string) *Env {
	return &Env{
		prefix:  prefix,
		delim:   delim,
		environ: os.Environ,
		logger:  logger.Nop{},
		cb:      cb,
	}
}

func (e *Env) SetLogger(l logger.Logger) {
	if l != nil {
		e.logger = l
	}
}

// ReadBytes returns the captured variables as a JSON document.
func (e *Env) ReadBytes() ([]byte, error) {
	vars := e.environ()
	sort.Strings(vars)

	out := "{}"
	for _, kv := range vars {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, e.prefix) {
			continue
		}

		key := name
		if e.cb != nil {
			if key = e.cb(name); key == "" {
				continue
			}
		}

		path := key
		if e.delim != "" && e.delim != "." {
			path = strings.ReplaceAll(key, e.delim, ".")
		}

		next, err := sjson.Set(out, path, raw)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("env %s -> %s", name, path)
		out = next
	}
	return []byte(out), nil
}

// Read is not supported; use ReadBytes with a json parser.
func (e *Env) Read() (map[string]any, error) {
	return nil, errors.New("env provider does not support Read")
}
