package wsvm

import "github.com/reusee/whitespace/wsprog"

// Frame is one level of label invocation. IP is the index of the next instruction in Body.
type Frame struct {
	Label int
	Main  bool
	Body  []wsprog.Instruction
	IP    int
}

func (f *Frame) done() bool {
	return f.IP >= len(f.Body)
}
