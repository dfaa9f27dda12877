package debugs

import (
	"context"
	"maps"
	"slices"

	"github.com/reusee/whitespace/logs"
	"github.com/reusee/whitespace/wsvm"
	"go.starlark.net/repl"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Tap opens an interactive starlark session with globals bound, returning when input ends.
type Tap func(ctx context.Context, what string, globals map[string]any)

func (Module) Tap(
	logger logs.Logger,
) Tap {
	return func(ctx context.Context, what string, globals map[string]any) {
		names := slices.Sorted(maps.Keys(globals))
		logger.InfoContext(ctx, "tap: "+what,
			"globals", names,
		)
		defer func() {
			logger.InfoContext(ctx, "tap end: "+what)
		}()

		mappings := make(starlark.StringDict)
		for name, value := range globals {
			mappings[name] = toStarlarkValue(value)
		}
		mappings.Freeze()

		thread := &starlark.Thread{
			Name: "tap",
		}
		repl.REPLOptions(&syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
		}, thread, mappings)
	}
}

// TapVM taps into the state a machine was left in.
type TapVM func(ctx context.Context, vm *wsvm.VM, err error)

func (Module) TapVM(
	tap Tap,
) TapVM {
	return func(ctx context.Context, vm *wsvm.VM, err error) {
		tap(ctx, "vm", StateGlobals(vm.State(), err))
	}
}

// StateGlobals names the parts of a machine state for a tap session.
func StateGlobals(state wsvm.State, err error) map[string]any {
	globals := map[string]any{
		"outcome": state.Outcome,
		"stack":   state.Stack,
		"heap":    state.Heap,
		"depth":   state.Depth,
		"steps":   state.Steps,
		"error":   err,
	}
	if state.Stack == nil {
		globals["stack"] = []int{}
	}
	return globals
}
