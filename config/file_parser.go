package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
	stripjsoncomments "github.com/trapcodeio/go-strip-json-comments"
)

type FileType string

const (
	FileTypeYAML  FileType = "yaml"
	FileTypeTOML  FileType = "toml"
	FileTypeJSON  FileType = "json"
	FileTypeJSONC FileType = "jsonc"
)

func (f FileType) String() string {
	return string(f)
}

func (f FileType) Valid() error {
	switch f {
	case FileTypeJSON, FileTypeJSONC, FileTypeYAML, FileTypeTOML:
		return nil
	default:
		return errors.New("invalid file type", errors.CategoryValidation).
			WithTextCode("INVALID_FILE_TYPE").
			WithMetadata(map[string]any{
				"file_type": string(f),
				"valid_types": []string{
					string(FileTypeJSON),
					string(FileTypeJSONC),
					string(FileTypeYAML),
					string(FileTypeTOML),
				},
			})
	}
}

// Parser returns the koanf parser for f. JSONC documents are parsed as JSON
// once their comments are removed with Clean.
func (f FileType) Parser() koanf.Parser {
	switch f {
	case FileTypeJSON, FileTypeJSONC:
		return json.Parser()
	case FileTypeTOML:
		return toml.Parser()
	case FileTypeYAML:
		return yaml.Parser()
	default:
		panic(fmt.Errorf("invalid file type: %s", f))
	}
}

// Clean prepares raw file content for Parser.
func (f FileType) Clean(b []byte) []byte {
	if f != FileTypeJSONC {
		return b
	}
	return []byte(stripjsoncomments.Strip(string(b)))
}

// InferFileType maps a path extension to a FileType, falling back to the first
// default or JSON.
func InferFileType(path string, defaultFileType ...FileType) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FileTypeTOML
	case ".json":
		return FileTypeJSON
	case ".jsonc", ".json5":
		return FileTypeJSONC
	case ".yaml", ".yml":
		return FileTypeYAML
	}

	if len(defaultFileType) > 0 {
		return defaultFileType[0]
	}

	return FileTypeJSON
}
