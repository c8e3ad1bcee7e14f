// Command optgen generates optarg option types from declaration documents.
//
//	optgen [flags] options.yaml...
//
// Run optgen -h for the flag list. Every flag can also be set in optgen.yaml or
// through OPTGEN_<FLAG> environment variables.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gookit/color"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-optarg/gen"
	"github.com/goliatone/go-optarg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	s, err := loadSettings(ctx, args)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		color.Red.Printf("optgen: %v\n", err)
		return 2
	}

	logger.SetDebug(s.Verbose)
	l := logger.NewDefaultLogger("optgen")
	runner := gen.NewRunner(s.RunnerOptions(gen.WithLog(l))...)

	ok := generate(ctx, runner, s.Inputs...)
	if !s.Watch {
		if !ok {
			return 1
		}
		return 0
	}

	color.Cyan.Printf("watching %d file(s), press ctrl+c to stop\n", len(s.Inputs))
	err = gen.Watch(ctx, s.Inputs, func(path string) {
		generate(ctx, runner, path)
	}, gen.WithLog(l))
	if err != nil {
		color.Red.Printf("optgen: %v\n", err)
		return 1
	}
	return 0
}

func generate(ctx context.Context, runner *gen.Runner, paths ...string) bool {
	results, err := runner.Run(ctx, paths...)
	reported := false
	for _, res := range results {
		switch {
		case res.Err != nil:
			reported = true
			color.Red.Printf("✗ %s: %v\n", res.Source, res.Err)
		case res.Output != "":
			color.Green.Printf("✓ %s -> %s\n", res.Source, res.Output)
		}
	}
	if err != nil && !reported {
		color.Red.Printf("optgen: %v\n", err)
	}
	return err == nil
}
