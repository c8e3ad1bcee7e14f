package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/goliatone/go-errors"
)

// OptargImport is the import path generated code depends on.
const OptargImport = "github.com/goliatone/go-optarg/optarg"

var sourceTemplate = template.Must(template.New("source").Funcs(template.FuncMap{
	"comment": comment,
}).Parse(`// Code generated by optgen{{with .Source}} from {{.}}{{end}}. DO NOT EDIT.

package {{.Package}}
{{if or .Time .Options}}
import (
{{- if .Time}}
	"time"
{{end}}
{{- if .Options}}
	"{{.Import}}"
{{- end}}
)
{{end}}
{{- range .Targets}}
// {{.}}Option is implemented by every option that configures a {{.}}.
type {{.}}Option = optarg.Setter[{{.}}]
{{end}}
{{- range .Options}}
{{comment .Name .Doc "is an optional argument carrying a" .Type}}
type {{.Name}} struct{ optarg.Value[{{.Type}}] }
{{if .Literal}}
// Default returns the value {{.Name}} takes when it is not passed.
func ({{.Name}}) Default() {{.Type}} { return {{.Literal}} }
{{end}}
// With{{.Name}} returns an explicitly set {{.Name}}.
func With{{.Name}}(v {{.Type}}) {{.Name}} { return optarg.New[{{.Name}}](v) }
{{if .ApplyTo}}
// Apply passes the payload to {{.ApplyTo}}.Set{{.Name}}.
func (o {{.Name}}) Apply(t *{{.ApplyTo}}) { t.Set{{.Name}}(optarg.Payload(o)) }
{{end}}
{{- end}}
{{- range .Flags}}
{{comment .Name .Doc "is a flag option of type" .Type}}
type {{.Name}} {{.Type}}

const (
{{- range .Consts}}
	{{.}}
{{- end}}
)
{{end}}`))

type renderData struct {
	Package string
	Source  string
	Import  string
	Time    bool
	Targets []string
	Options []renderOption
	Flags   []renderFlag
}

type renderOption struct {
	Name    string
	Type    string
	Doc     string
	Literal string
	ApplyTo string
}

type renderFlag struct {
	Name   string
	Type   string
	Doc    string
	Consts []string
}

// Render returns gofmt'd Go source declaring every option and flag in f. f
// must have been validated, as Load does.
func Render(f *File) ([]byte, error) {
	data := renderData{
		Package: f.Package,
		Import:  OptargImport,
		Time:    f.usesDuration(),
		Targets: f.Targets(),
	}
	if f.Source != "" {
		data.Source = filepath.Base(f.Source)
	}

	for _, d := range f.OptionList() {
		opt := renderOption{
			Name:    d.Name,
			Type:    string(d.Type),
			Doc:     d.Doc,
			ApplyTo: d.ApplyTo,
		}
		if d.HasDefault() {
			lit, err := literal(d.Value())
			if err != nil {
				return nil, errors.Wrap(err, errors.CategoryOperation, "failed to render default").
					WithTextCode("RENDER_FAILED").
					WithMetadata(map[string]any{"name": d.Name})
			}
			opt.Literal = lit
		}
		data.Options = append(data.Options, opt)
	}

	for _, d := range f.FlagList() {
		data.Flags = append(data.Flags, renderFlag{
			Name:   d.Name,
			Type:   string(d.Type),
			Doc:    d.Doc,
			Consts: flagConsts(d),
		})
	}

	var buf bytes.Buffer
	if err := sourceTemplate.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to execute source template").
			WithTextCode("RENDER_FAILED")
	}

	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "generated source does not parse").
			WithTextCode("FORMAT_FAILED").
			WithMetadata(map[string]any{"source": f.Source})
	}
	return out, nil
}

func flagConsts(d FlagDecl) []string {
	out := make([]string, 0, len(d.Values))
	for i, value := range d.Values {
		switch {
		case d.Type == TypeString:
			out = append(out, fmt.Sprintf("%s%s %s = %s", d.Name, value, d.Name, strconv.Quote(value)))
		case i == 0:
			out = append(out, fmt.Sprintf("%s%s %s = iota", d.Name, value, d.Name))
		default:
			out = append(out, d.Name+value)
		}
	}
	return out
}

func comment(name, doc, fallback, typ string) string {
	if doc == "" {
		return fmt.Sprintf("// %s %s %s.", name, fallback, typ)
	}
	lines := strings.Split(strings.TrimSpace(doc), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight("// "+strings.TrimSpace(line), " ")
	}
	if !strings.HasPrefix(lines[0], "// "+name) {
		lines[0] = "// " + name + " " + strings.TrimPrefix(lines[0], "// ")
	}
	if last := lines[len(lines)-1]; !strings.HasSuffix(last, ".") {
		lines[len(lines)-1] = last + "."
	}
	return strings.Join(lines, "\n")
}

// literal renders a coerced default as a Go constant expression.
func literal(v any) (string, error) {
	switch v := v.(type) {
	case bool:
		return strconv.FormatBool(v), nil
	case string:
		return strconv.Quote(v), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case time.Duration:
		return durationLiteral(v), nil
	}
	return "", fmt.Errorf("unsupported default %T", v)
}

var durationUnits = []struct {
	unit time.Duration
	name string
}{
	{time.Hour, "time.Hour"},
	{time.Minute, "time.Minute"},
	{time.Second, "time.Second"},
	{time.Millisecond, "time.Millisecond"},
	{time.Microsecond, "time.Microsecond"},
}

func durationLiteral(d time.Duration) string {
	if d == 0 {
		return "0"
	}
	for _, u := range durationUnits {
		if d%u.unit == 0 {
			return fmt.Sprintf("%d * %s", d/u.unit, u.name)
		}
	}
	return strconv.FormatInt(int64(d), 10)
}
