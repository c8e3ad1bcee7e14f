package optarg_test

import (
	"time"

	"github.com/goliatone/go-optarg/optarg"
)

type ItemCount struct{ optarg.Value[int] }

func (ItemCount) Default() int { return 256 }

type VerboseLogs struct{ optarg.Value[bool] }

type Label struct{ optarg.Value[string] }

type Timeout struct{ optarg.Value[time.Duration] }

func (Timeout) Default() time.Duration { return 5 * time.Second }

// Width and Height share value type and default on purpose.
type Width struct{ optarg.Value[int] }

func (Width) Default() int { return 10 }

type Height struct{ optarg.Value[int] }

func (Height) Default() int { return 10 }

type Mode int

const (
	ModeFast Mode = iota
	ModeSafe
	ModeStrict
)
