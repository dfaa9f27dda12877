package wsscript

import (
	"github.com/reusee/whitespace/wsprog"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	Recursion:       true,
}

// Build executes a script and returns the program its calls emitted. src is anything
// starlark.ExecFileOptions accepts: nil to read filename, a string, []byte or io.Reader.
func Build(thread *starlark.Thread, filename string, src any) (*wsprog.Program, error) {
	b := wsprog.NewBuilder()
	if _, err := starlark.ExecFileOptions(fileOptions, thread, filename, src, Predeclared(b)); err != nil {
		return nil, err
	}
	return b.Build()
}
