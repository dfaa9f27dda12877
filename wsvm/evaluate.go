package wsvm

import (
	"context"
	"io"

	"github.com/reusee/whitespace/wsprog"
)

// Evaluate runs program on a new machine.
func Evaluate(
	ctx context.Context,
	program *wsprog.Program,
	input LineReader,
	output io.Writer,
	options ...Option,
) (Outcome, error) {
	return New(program, input, output, options...).Run(ctx)
}

const Theory = `
# Execution Model

A program is a main sequence plus labelled bodies. Every transfer to a label
(call, jump, and the conditional jumps when taken) runs the label's body as a
nested level, exactly like a call. When a body ends, by falling off its end or
by ret, control goes back to the instruction after the transfer in the level
that invoked it. So a "jump" resumes its invoker too; programs written for the
language end loops with halt or by running out of levels.

Levels are frames on an explicit stack, each holding a body and the index of
its next instruction. A transfer that is the last instruction of its body
replaces the current frame instead of pushing one, since nothing would run on
return anyway. Loops that jump back to their own label stay at constant depth.

A ret with only one frame left, or the main level running out, completes the
run. halt ends the run at any depth. Neither is an error.
`
