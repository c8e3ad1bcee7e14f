package solvers

import (
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/v2"
)

type uris struct {
	fs         fs.FS
	delimiters delimiters
	lookupEnv  func(string) (string, bool)
}

// NewURISolver replaces "@file://path" with the file content and "@env://NAME" with
// the environment variable. Files are read relative to the working directory.
func NewURISolver(start, end string) ConfigSolver {
	return NewURISolverWithFS(start, end, os.DirFS("."))
}

// NewURISolverWithFS reads file references from f, typically os.DirFS of the
// declaration file's directory.
func NewURISolverWithFS(start, end string, f fs.FS) ConfigSolver {
	return &uris{
		fs:         f,
		delimiters: delimiters{Start: start, End: end},
		lookupEnv:  os.LookupEnv,
	}
}

func (s uris) Solve(config *koanf.Koanf) *koanf.Koanf {
	if config == nil {
		return config
	}
	stringValues(config, func(key, val string) {
		if content, ok := s.resolve(val); ok {
			config.Set(key, content)
		}
	})
	return config
}

func (s uris) resolve(val string) (string, bool) {
	if !strings.HasPrefix(val, s.delimiters.Start) {
		return "", false
	}
	protocol, target, ok := strings.Cut(val[len(s.delimiters.Start):], s.delimiters.End)
	if !ok || target == "" {
		return "", false
	}

	switch protocol {
	case "file":
		content, err := SolveFileProtocol(s.fs, target)
		return content, err == nil
	case "env":
		return s.lookupEnv(target)
	}
	return "", false
}

func SolveFileProtocol(f fs.FS, uri string) (string, error) {
	b, err := fs.ReadFile(f, uri)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}
