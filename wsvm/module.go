package wsvm

import (
	"context"
	"io"

	"github.com/reusee/dscope"
	"github.com/reusee/whitespace/logs"
	"github.com/reusee/whitespace/wsconfigs"
	"github.com/reusee/whitespace/wsprog"
)

type Module struct {
	dscope.Module
	Logs    logs.Module
	Configs wsconfigs.Module
}

type NewVM func(program *wsprog.Program, input LineReader, output io.Writer) *VM

func (Module) NewVM(
	logger logs.Logger,
	maxDepth wsconfigs.MaxDepth,
	trace wsconfigs.Trace,
) NewVM {
	return func(program *wsprog.Program, input LineReader, output io.Writer) *VM {
		return New(
			program, input, output,
			WithLogger(logger),
			WithMaxDepth(int(maxDepth)),
			WithTrace(bool(trace)),
		)
	}
}

type Evaluator func(
	ctx context.Context,
	program *wsprog.Program,
	input LineReader,
	output io.Writer,
) (Outcome, error)

func (Module) Evaluator(
	newVM NewVM,
) Evaluator {
	return func(ctx context.Context, program *wsprog.Program, input LineReader, output io.Writer) (Outcome, error) {
		return newVM(program, input, output).Run(ctx)
	}
}
