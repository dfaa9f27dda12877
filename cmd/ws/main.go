package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/reusee/dscope"
	"github.com/reusee/whitespace/cmds"
	"github.com/reusee/whitespace/logs"
	"github.com/reusee/whitespace/modes"
	"github.com/tebeka/atexit"
)

var (
	tapFlag = cmds.Switch("-tap")

	action func(ctx context.Context, tool *Tool) error
)

func define(name string, desc string, fn func(*Tool, context.Context, string) error) {
	cmds.Define(name, cmds.Func(func(path string) {
		action = func(ctx context.Context, tool *Tool) error {
			return fn(tool, ctx, path)
		}
	}).Desc(desc))
}

func init() {
	define("run", "decode and run a whitespace file", (*Tool).Run)
	define("list", "print the listing of a whitespace file", (*Tool).List)
	define("yaml", "print a whitespace file as yaml", (*Tool).YAML)
	define("assemble", "print the whitespace source of a yaml listing", (*Tool).Assemble)
	define("script", "print the whitespace source built by a starlark script", (*Tool).Script)
	define("config", "print the value of a config key in each config file", (*Tool).Config)
	define("script-run", "build a program from a starlark script and run it", (*Tool).ScriptRun)
}

func main() {
	if err := cmds.GlobalExecutor.Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(2)
	}
	if action == nil {
		cmds.PrintUsage()
		atexit.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	atexit.Register(cancel)

	scope := dscope.New(
		new(Module),
		modes.ForProduction(),
	)

	var err error
	scope.Call(func(
		tool *Tool,
		logger logs.Logger,
		newSpan logs.NewSpan,
	) {
		atexit.Register(func() {
			if err := tool.Close(); err != nil {
				logger.Error("close program cache", "error", err)
			}
		})
		tool.Tap = *tapFlag

		ctx, _ := newSpan(ctx, "")
		if err = action(ctx, tool); err != nil {
			err = logs.WrapSpan(ctx, err)
		}
	})

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
