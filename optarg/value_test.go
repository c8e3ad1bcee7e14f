package optarg_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-optarg/optarg"
	"github.com/stretchr/testify/assert"
)

func TestValue_ZeroIsUnset(t *testing.T) {
	var o ItemCount
	assert.False(t, o.IsSet())

	raw, ok := o.Raw()
	assert.False(t, ok)
	assert.Equal(t, 0, raw)
}

func TestValue_DefaultShadowing(t *testing.T) {
	assert.Equal(t, 256, ItemCount{}.Default())
	assert.Equal(t, 5*time.Second, Timeout{}.Default())
	assert.Equal(t, "", Label{}.Default())
	assert.False(t, VerboseLogs{}.Default())
}

func TestNew(t *testing.T) {
	o := optarg.New[ItemCount](50)
	assert.True(t, o.IsSet())

	raw, ok := o.Raw()
	assert.True(t, ok)
	assert.Equal(t, 50, raw)
}

func TestNew_ZeroValueIsStillSet(t *testing.T) {
	o := optarg.New[ItemCount](0)
	assert.True(t, o.IsSet())
	assert.Equal(t, 0, optarg.Payload(o))
}

func TestPayload(t *testing.T) {
	tests := []struct {
		name     string
		opt      ItemCount
		expected int
	}{
		{name: "default constructed", opt: ItemCount{}, expected: 256},
		{name: "explicit value", opt: optarg.New[ItemCount](12), expected: 12},
		{name: "explicit default", opt: optarg.New[ItemCount](256), expected: 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, optarg.Payload(tt.opt))
		})
	}
}

func TestPayload_NoDeclaredDefault(t *testing.T) {
	assert.Equal(t, "", optarg.Payload(Label{}))
	assert.Equal(t, "x", optarg.Payload(optarg.New[Label]("x")))
}

type Output struct{ optarg.Value[fmt.Stringer] }

type name string

func (n name) String() string { return string(n) }

func TestNew_InterfaceValue(t *testing.T) {
	o := optarg.New[Output, fmt.Stringer](name("x"))
	assert.True(t, o.IsSet())
	assert.Equal(t, "x", optarg.Payload(o).String())

	got := optarg.Resolve[Output]("ignored", o)
	assert.Equal(t, name("x"), got)
	assert.Nil(t, optarg.Resolve[Output](Label{}))
}
