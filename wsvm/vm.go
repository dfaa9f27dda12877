package wsvm

import (
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/reusee/whitespace/wsprog"
)

const DefaultMaxDepth = 1 << 20

// VM runs one program against its own operand stack and heap. The program is shared
// and never modified; a VM is not safe for concurrent use.
type VM struct {
	program  *wsprog.Program
	input    LineReader
	output   io.Writer
	logger   *slog.Logger
	maxDepth int
	trace    bool

	stack   []int
	heap    map[int]int
	frames  []Frame
	steps   int
	outcome Outcome
}

type Option func(*VM)

func WithLogger(logger *slog.Logger) Option {
	return func(v *VM) {
		v.logger = logger
	}
}

// WithMaxDepth caps the number of nested frames. Non-positive values keep the default.
func WithMaxDepth(n int) Option {
	return func(v *VM) {
		if n > 0 {
			v.maxDepth = n
		}
	}
}

// WithTrace logs every executed instruction at debug level.
func WithTrace(trace bool) Option {
	return func(v *VM) {
		v.trace = trace
	}
}

func New(
	program *wsprog.Program,
	input LineReader,
	output io.Writer,
	options ...Option,
) *VM {
	v := &VM{
		program:  program,
		input:    input,
		output:   output,
		logger:   slog.New(slog.DiscardHandler),
		maxDepth: DefaultMaxDepth,
	}
	for _, option := range options {
		option(v)
	}
	return v
}

func (v *VM) push(n int) {
	v.stack = append(v.stack, n)
}

func (v *VM) pop() (int, error) {
	if len(v.stack) == 0 {
		return 0, ErrStackUnderflow
	}
	n := v.stack[len(v.stack)-1]
	v.stack = v.stack[:len(v.stack)-1]
	return n, nil
}

// pop2 pops the right operand then the left one.
func (v *VM) pop2() (left, right int, err error) {
	if len(v.stack) < 2 {
		return 0, 0, ErrStackUnderflow
	}
	n := len(v.stack)
	left, right = v.stack[n-2], v.stack[n-1]
	v.stack = v.stack[:n-2]
	return
}

type State struct {
	Outcome Outcome
	Stack   []int // bottom first
	Heap    map[int]int
	Depth   int
	Steps   int
}

// State returns a copy of the machine state, for diagnostics after or between runs.
func (v *VM) State() State {
	return State{
		Outcome: v.outcome,
		Stack:   slices.Clone(v.stack),
		Heap:    maps.Clone(v.heap),
		Depth:   len(v.frames),
		Steps:   v.steps,
	}
}
