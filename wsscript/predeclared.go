package wsscript

import (
	"fmt"

	"github.com/reusee/starlarkutil"
	"github.com/reusee/whitespace/wsprog"
	"go.starlark.net/starlark"
)

// Predeclared returns the script builtins, one per instruction, all emitting into b.
func Predeclared(b *wsprog.Builder) starlark.StringDict {
	ret := starlark.StringDict{
		"text": starlark.NewBuiltin("text", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var s string
			if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &s); err != nil {
				return nil, err
			}
			b.Text(s)
			return starlark.None, nil
		}),
	}

	for op := wsprog.OpPush; op.Valid(); op++ {
		name := op.String()
		if !op.HasArg() {
			ret[name] = starlarkutil.MakeFunc(name, func() {
				b.Emit(wsprog.Inst(op))
			})
			continue
		}
		ret[name] = starlark.NewBuiltin(name, func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var arg starlark.Int
			if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &arg); err != nil {
				return nil, err
			}
			n, ok := arg.Int64()
			if !ok {
				return nil, fmt.Errorf("%s: %v out of range", fn.Name(), arg)
			}
			b.Emit(wsprog.Instruction{
				Op:  op,
				Arg: int(n),
			})
			// report duplicate labels at the calling line
			if err := b.Err(); err != nil {
				return nil, err
			}
			return starlark.None, nil
		})
	}

	return ret
}
