package wsscript

import (
	"github.com/reusee/dscope"
	"github.com/reusee/whitespace/logs"
	"github.com/reusee/whitespace/wsprog"
	"go.starlark.net/starlark"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}

type BuildScript func(filename string, src any) (*wsprog.Program, error)

func (Module) BuildScript(
	logger logs.Logger,
) BuildScript {
	return func(filename string, src any) (*wsprog.Program, error) {
		thread := &starlark.Thread{
			Name: filename,
			Print: func(thread *starlark.Thread, msg string) {
				logger.Info("script print",
					"script", thread.Name,
					"msg", msg,
				)
			},
		}
		prog, err := Build(thread, filename, src)
		if err != nil {
			logger.Debug("script failed",
				"script", filename,
				"error", err,
			)
			return nil, err
		}
		return prog, nil
	}
}
