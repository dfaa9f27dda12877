package main

import (
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/whitespace/debugs"
	"github.com/reusee/whitespace/storages"
	"github.com/reusee/whitespace/wsscript"
	"github.com/reusee/whitespace/wsvm"
	"golang.org/x/term"
)

type Module struct {
	dscope.Module
	VM       wsvm.Module
	Storages storages.Module
	Script   wsscript.Module
	Debugs   debugs.Module
}

func (Module) Tool(
	inject dscope.InjectStruct,
) *Tool {
	ret := &Tool{
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
	inject(ret)
	return ret
}
