package wsconfigs

import (
	"github.com/reusee/whitespace/cmds"
	"github.com/reusee/whitespace/configs"
)

type Trace bool

// nil if neither flag was given
var traceFlag *bool

func init() {
	cmds.Define("-trace", cmds.Func(func() {
		v := true
		traceFlag = &v
	}).Desc("log every executed instruction"))
	cmds.Define("!-trace", cmds.Func(func() {
		v := false
		traceFlag = &v
	}).Desc("do not log executed instructions"))
}

func (Module) Trace(
	loader configs.Loader,
) Trace {
	if traceFlag != nil {
		return Trace(*traceFlag)
	}
	return Trace(configs.First[bool](loader, "trace"))
}
