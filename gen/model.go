package gen

import (
	"sort"
	"strings"
)

// ValueType is the Go type carried by a declared option.
type ValueType string

const (
	TypeBool     ValueType = "bool"
	TypeString   ValueType = "string"
	TypeInt      ValueType = "int"
	TypeInt8     ValueType = "int8"
	TypeInt16    ValueType = "int16"
	TypeInt32    ValueType = "int32"
	TypeInt64    ValueType = "int64"
	TypeUint     ValueType = "uint"
	TypeUint8    ValueType = "uint8"
	TypeUint16   ValueType = "uint16"
	TypeUint32   ValueType = "uint32"
	TypeUint64   ValueType = "uint64"
	TypeFloat32  ValueType = "float32"
	TypeFloat64  ValueType = "float64"
	TypeDuration ValueType = "time.Duration"
)

var typeAliases = map[string]ValueType{
	"boolean":  TypeBool,
	"str":      TypeString,
	"integer":  TypeInt,
	"float":    TypeFloat64,
	"double":   TypeFloat64,
	"byte":     TypeUint8,
	"rune":     TypeInt32,
	"duration": TypeDuration,
}

// UnmarshalText normalizes spelling, so "Duration", "duration" and
// "time.Duration" are the same type. Unsupported names are kept and rejected
// during validation.
func (t *ValueType) UnmarshalText(b []byte) error {
	name := strings.TrimSpace(string(b))
	if alias, ok := typeAliases[strings.ToLower(name)]; ok {
		*t = alias
		return nil
	}
	if strings.EqualFold(name, string(TypeDuration)) {
		*t = TypeDuration
		return nil
	}
	*t = ValueType(name)
	return nil
}

// Supported reports whether t can be declared as an option value type.
func (t ValueType) Supported() bool {
	switch t {
	case TypeBool, TypeString,
		TypeInt, TypeInt8, TypeInt16, TypeInt32, TypeInt64,
		TypeUint, TypeUint8, TypeUint16, TypeUint32, TypeUint64,
		TypeFloat32, TypeFloat64, TypeDuration:
		return true
	}
	return false
}

// Integer reports whether t is a signed or unsigned integer kind.
func (t ValueType) Integer() bool {
	switch t {
	case TypeInt, TypeInt8, TypeInt16, TypeInt32, TypeInt64,
		TypeUint, TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		return true
	}
	return false
}

// File is one declaration document.
type File struct {
	Package string                `koanf:"package"`
	Vars    map[string]any        `koanf:"vars"`
	Options map[string]OptionDecl `koanf:"options"`
	Flags   map[string]FlagDecl   `koanf:"flags"`

	// Source is the path the document was read from.
	Source string `koanf:"-"`
}

// OptionDecl declares a wrapped option type.
type OptionDecl struct {
	Name    string    `koanf:"-"`
	Type    ValueType `koanf:"type"`
	Default any       `koanf:"default"`
	Doc     string    `koanf:"doc"`
	ApplyTo string    `koanf:"apply_to"`

	value any
}

// HasDefault reports whether the declaration names a default.
func (d OptionDecl) HasDefault() bool {
	return d.Default != nil
}

// Value is the default coerced to the declared type, set once the file is validated.
func (d OptionDecl) Value() any {
	return d.value
}

// FlagDecl declares a scalar option type with named constants.
type FlagDecl struct {
	Name   string    `koanf:"-"`
	Type   ValueType `koanf:"type"`
	Values []string  `koanf:"values"`
	Doc    string    `koanf:"doc"`
}

// OptionList returns the option declarations sorted by name.
func (f *File) OptionList() []OptionDecl {
	out := make([]OptionDecl, 0, len(f.Options))
	for name, d := range f.Options {
		d.Name = name
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// FlagList returns the flag declarations sorted by name.
func (f *File) FlagList() []FlagDecl {
	out := make([]FlagDecl, 0, len(f.Flags))
	for name, d := range f.Flags {
		d.Name = name
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Targets returns the distinct apply_to types, sorted.
func (f *File) Targets() []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range f.Options {
		if d.ApplyTo == "" || seen[d.ApplyTo] {
			continue
		}
		seen[d.ApplyTo] = true
		out = append(out, d.ApplyTo)
	}
	sort.Strings(out)
	return out
}

func (f *File) usesDuration() bool {
	for _, d := range f.Options {
		if d.Type == TypeDuration {
			return true
		}
	}
	return false
}
