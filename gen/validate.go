package gen

import (
	"go/token"
	"math"
	"time"

	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-optarg/cfgx"
)

// Validate checks names and types and coerces every default to its declared
// type. It runs as the last step of Load.
func (f *File) Validate() error {
	if f.Package == "" {
		return f.invalid("package name is required", "MISSING_PACKAGE", nil)
	}
	if !token.IsIdentifier(f.Package) {
		return f.invalid("package name is not a valid identifier", "INVALID_PACKAGE",
			map[string]any{"package": f.Package})
	}
	if len(f.Options) == 0 && len(f.Flags) == 0 {
		return f.invalid("document declares no options or flags", "EMPTY_DECLARATION", nil)
	}

	idents := map[string]string{}
	claim := func(ident, owner string) error {
		if prev, ok := idents[ident]; ok {
			return f.invalid("generated identifier declared twice", "DUPLICATE_NAME", map[string]any{
				"identifier": ident,
				"first":      prev,
				"second":     owner,
			})
		}
		idents[ident] = owner
		return nil
	}

	for _, target := range f.Targets() {
		if !token.IsIdentifier(target) {
			return f.invalid("apply_to is not a valid identifier", "INVALID_APPLY_TARGET",
				map[string]any{"apply_to": target})
		}
		if err := claim(target+"Option", target); err != nil {
			return err
		}
	}

	for _, d := range f.OptionList() {
		if err := f.validateOption(&d, claim); err != nil {
			return err
		}
		f.Options[d.Name] = d
	}

	for _, d := range f.FlagList() {
		if err := f.validateFlag(d, claim); err != nil {
			return err
		}
	}
	return nil
}

func (f *File) validateOption(d *OptionDecl, claim func(string, string) error) error {
	meta := map[string]any{"name": d.Name, "type": string(d.Type)}

	if !token.IsIdentifier(d.Name) || !token.IsExported(d.Name) {
		return f.invalid("option name must be an exported identifier", "INVALID_NAME", meta)
	}
	if !d.Type.Supported() {
		return f.invalid("unsupported option type", "UNSUPPORTED_TYPE", meta)
	}
	if err := claim(d.Name, d.Name); err != nil {
		return err
	}
	if err := claim("With"+d.Name, d.Name); err != nil {
		return err
	}

	if !d.HasDefault() {
		return nil
	}
	v, err := coerceDefault(d.Type, d.Default)
	if err != nil {
		meta["default"] = d.Default
		return errors.Wrap(err, errors.CategoryValidation, "default does not fit the option type").
			WithTextCode("INVALID_DEFAULT").
			WithMetadata(f.meta(meta))
	}
	d.value = v
	return nil
}

func (f *File) validateFlag(d FlagDecl, claim func(string, string) error) error {
	meta := map[string]any{"name": d.Name, "type": string(d.Type)}

	if !token.IsIdentifier(d.Name) || !token.IsExported(d.Name) {
		return f.invalid("flag name must be an exported identifier", "INVALID_NAME", meta)
	}
	if d.Type != TypeString && !d.Type.Integer() {
		return f.invalid("flag type must be string or an integer kind", "INVALID_FLAG_TYPE", meta)
	}
	if len(d.Values) == 0 {
		return f.invalid("flag declares no values", "EMPTY_FLAG_VALUES", meta)
	}
	if err := claim(d.Name, d.Name); err != nil {
		return err
	}
	for _, value := range d.Values {
		ident := d.Name + value
		if value == "" || !token.IsIdentifier(ident) {
			meta["value"] = value
			return f.invalid("flag value does not form a valid identifier", "INVALID_FLAG_VALUE", meta)
		}
		if err := claim(ident, d.Name); err != nil {
			return err
		}
	}
	return nil
}

func (f *File) invalid(msg, code string, meta map[string]any) error {
	return errors.New(msg, errors.CategoryValidation).
		WithTextCode(code).
		WithMetadata(f.meta(meta))
}

func (f *File) meta(meta map[string]any) map[string]any {
	if meta == nil {
		meta = map[string]any{}
	}
	if f.Source != "" {
		meta["source"] = f.Source
	}
	return meta
}

func coerceDefault(t ValueType, raw any) (any, error) {
	switch t {
	case TypeBool:
		return coerce[bool](raw)
	case TypeString:
		return coerce[string](raw)
	case TypeInt:
		return coerce[int](raw)
	case TypeInt8:
		return coerce[int8](raw)
	case TypeInt16:
		return coerce[int16](raw)
	case TypeInt32:
		return coerce[int32](raw)
	case TypeInt64:
		return coerce[int64](raw)
	case TypeUint:
		return coerce[uint](raw)
	case TypeUint8:
		return coerce[uint8](raw)
	case TypeUint16:
		return coerce[uint16](raw)
	case TypeUint32:
		return coerce[uint32](raw)
	case TypeUint64:
		return coerce[uint64](raw)
	case TypeFloat32:
		return finite(coerce[float32](raw))
	case TypeFloat64:
		return finite(coerce[float64](raw))
	case TypeDuration:
		return coerce[time.Duration](raw)
	}
	return nil, errors.New("unsupported option type", errors.CategoryValidation).
		WithTextCode("UNSUPPORTED_TYPE")
}

func coerce[T any](raw any) (any, error) {
	v, err := cfgx.Coerce[T](raw)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// finite rejects infinities and NaN, which have no Go literal form.
func finite(v any, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	var f float64
	switch x := v.(type) {
	case float32:
		f = float64(x)
	case float64:
		f = x
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, errors.New("default must be a finite number", errors.CategoryValidation).
			WithTextCode("NON_FINITE_DEFAULT")
	}
	return v, nil
}
