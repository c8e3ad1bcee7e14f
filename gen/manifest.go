package gen

import (
	"fmt"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/tidwall/sjson"
)

// Manifest describes the declarations of f as JSON, for tooling that needs the
// option catalog without parsing Go.
func Manifest(f *File) ([]byte, error) {
	m := manifest{doc: "{}"}

	m.set("package", f.Package)
	m.set("source", f.Source)
	m.setRaw("options", "[]")
	m.setRaw("flags", "[]")

	for i, d := range f.OptionList() {
		prefix := fmt.Sprintf("options.%d.", i)
		m.set(prefix+"name", d.Name)
		m.set(prefix+"type", string(d.Type))
		if d.HasDefault() {
			m.set(prefix+"default", manifestValue(d.Value()))
		}
		if d.Doc != "" {
			m.set(prefix+"doc", d.Doc)
		}
		if d.ApplyTo != "" {
			m.set(prefix+"apply_to", d.ApplyTo)
		}
	}

	for i, d := range f.FlagList() {
		prefix := fmt.Sprintf("flags.%d.", i)
		m.set(prefix+"name", d.Name)
		m.set(prefix+"type", string(d.Type))
		m.set(prefix+"values", d.Values)
		if d.Doc != "" {
			m.set(prefix+"doc", d.Doc)
		}
	}

	if m.err != nil {
		return nil, errors.Wrap(m.err, errors.CategoryOperation, "failed to build manifest").
			WithTextCode("MANIFEST_FAILED").
			WithMetadata(map[string]any{"source": f.Source})
	}
	return []byte(m.doc + "\n"), nil
}

type manifest struct {
	doc string
	err error
}

func (m *manifest) set(path string, v any) {
	if m.err != nil {
		return
	}
	m.doc, m.err = sjson.Set(m.doc, path, v)
}

func (m *manifest) setRaw(path, raw string) {
	if m.err != nil {
		return
	}
	m.doc, m.err = sjson.SetRaw(m.doc, path, raw)
}

func manifestValue(v any) any {
	if d, ok := v.(time.Duration); ok {
		return d.String()
	}
	return v
}
