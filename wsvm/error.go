package wsvm

import (
	"errors"
	"fmt"

	"github.com/reusee/whitespace/wsprog"
)

var (
	ErrStackUnderflow      = errors.New("stack underflow")
	ErrUnboundAddress      = errors.New("unbound heap address")
	ErrUndefinedLabel      = errors.New("undefined label")
	ErrInvalidNumericInput = errors.New("invalid numeric input")
	ErrArithmeticFault     = errors.New("arithmetic fault")
	ErrDepthExceeded       = errors.New("call depth exceeded")
	ErrEndOfInput          = errors.New("end of input")
	ErrOutput              = errors.New("output failed")
)

// RuntimeError is a failure raised while executing an instruction. Err is one of the
// sentinels above, Detail is the underlying cause if any.
type RuntimeError struct {
	Err    error
	Inst   wsprog.Instruction
	Depth  int
	Detail error
}

func (r *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s at depth %d", r.Inst, r.Err, r.Depth)
	if r.Detail != nil {
		msg += ": " + r.Detail.Error()
	}
	return msg
}

func (r *RuntimeError) Unwrap() []error {
	if r.Detail != nil {
		return []error{r.Err, r.Detail}
	}
	return []error{r.Err}
}
