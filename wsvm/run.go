package wsvm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/reusee/whitespace/wsprog"
)

// steps between context checks
const checkInterval = 1 << 12

// Run executes the program from the start of its main sequence, with a fresh stack and heap.
func (v *VM) Run(ctx context.Context) (outcome Outcome, err error) {
	v.stack = nil
	v.heap = make(map[int]int)
	v.frames = append(v.frames[:0], Frame{
		Main: true,
		Body: v.program.Main,
	})
	v.steps = 0
	v.outcome = Running
	defer func() {
		v.outcome = outcome
		v.logger.DebugContext(ctx, "run end",
			"outcome", outcome,
			"steps", v.steps,
			"depth", len(v.frames),
		)
	}()

	for {
		if v.steps%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Failed, err
			}
		}

		top := &v.frames[len(v.frames)-1]
		if top.done() {
			// falling off a body resumes the invoker
			if len(v.frames) == 1 {
				return Completed, nil
			}
			v.frames = v.frames[:len(v.frames)-1]
			continue
		}

		inst := top.Body[top.IP]
		top.IP++
		v.steps++
		if v.trace {
			v.logger.DebugContext(ctx, "exec",
				"inst", inst.String(),
				"depth", len(v.frames),
				"stack", len(v.stack),
			)
		}

		outcome, err := v.exec(inst)
		if err != nil {
			var runtimeErr *RuntimeError
			if !errors.As(err, &runtimeErr) {
				runtimeErr = &RuntimeError{
					Err: err,
				}
			}
			runtimeErr.Inst = inst
			runtimeErr.Depth = len(v.frames)
			return Failed, runtimeErr
		}
		if outcome != Running {
			return outcome, nil
		}
	}
}

func (v *VM) exec(inst wsprog.Instruction) (Outcome, error) {
	switch inst.Op {

	case wsprog.OpPush:
		v.push(inst.Arg)

	case wsprog.OpDup:
		n, err := v.pop()
		if err != nil {
			return Failed, err
		}
		v.push(n)
		v.push(n)

	case wsprog.OpSwap:
		left, right, err := v.pop2()
		if err != nil {
			return Failed, err
		}
		v.push(right)
		v.push(left)

	case wsprog.OpDiscard:
		if _, err := v.pop(); err != nil {
			return Failed, err
		}

	case wsprog.OpAdd, wsprog.OpSub, wsprog.OpMul, wsprog.OpDiv, wsprog.OpMod:
		left, right, err := v.pop2()
		if err != nil {
			return Failed, err
		}
		switch inst.Op {
		case wsprog.OpAdd:
			v.push(left + right)
		case wsprog.OpSub:
			v.push(left - right)
		case wsprog.OpMul:
			v.push(left * right)
		case wsprog.OpDiv:
			if right == 0 {
				return Failed, &RuntimeError{
					Err:    ErrArithmeticFault,
					Detail: fmt.Errorf("division by zero"),
				}
			}
			v.push(left / right)
		case wsprog.OpMod:
			if right == 0 {
				return Failed, &RuntimeError{
					Err:    ErrArithmeticFault,
					Detail: fmt.Errorf("modulo by zero"),
				}
			}
			v.push(left % right)
		}

	case wsprog.OpStore:
		addr, value, err := v.pop2()
		if err != nil {
			return Failed, err
		}
		v.heap[addr] = value

	case wsprog.OpRetrieve:
		addr, err := v.pop()
		if err != nil {
			return Failed, err
		}
		value, ok := v.heap[addr]
		if !ok {
			return Failed, &RuntimeError{
				Err:    ErrUnboundAddress,
				Detail: fmt.Errorf("address %d", addr),
			}
		}
		v.push(value)

	case wsprog.OpMark:
		// labels are structure, not code

	case wsprog.OpCall, wsprog.OpJump:
		if err := v.transfer(inst.Arg); err != nil {
			return Failed, err
		}

	case wsprog.OpJumpZero, wsprog.OpJumpNegative:
		n, err := v.pop()
		if err != nil {
			return Failed, err
		}
		if inst.Op == wsprog.OpJumpZero && n == 0 ||
			inst.Op == wsprog.OpJumpNegative && n < 0 {
			if err := v.transfer(inst.Arg); err != nil {
				return Failed, err
			}
		}

	case wsprog.OpReturn:
		if len(v.frames) == 1 {
			return Completed, nil
		}
		v.frames = v.frames[:len(v.frames)-1]

	case wsprog.OpHalt:
		return Halted, nil

	case wsprog.OpPrintChar:
		n, err := v.pop()
		if err != nil {
			return Failed, err
		}
		r := utf8.RuneError
		if n >= 0 && n <= utf8.MaxRune {
			r = rune(n)
		}
		if err := v.write(utf8.AppendRune(nil, r)); err != nil {
			return Failed, err
		}

	case wsprog.OpPrintNumber:
		n, err := v.pop()
		if err != nil {
			return Failed, err
		}
		if err := v.write(strconv.AppendInt(nil, int64(n), 10)); err != nil {
			return Failed, err
		}

	case wsprog.OpReadChar:
		addr, err := v.pop()
		if err != nil {
			return Failed, err
		}
		line, err := v.readLine()
		if err != nil {
			return Failed, err
		}
		c := '\n'
		if line != "" {
			c, _ = utf8.DecodeRuneInString(line)
		}
		v.heap[addr] = int(c)

	case wsprog.OpReadNumber:
		addr, err := v.pop()
		if err != nil {
			return Failed, err
		}
		line, err := v.readLine()
		if err != nil {
			return Failed, err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return Failed, &RuntimeError{
				Err:    ErrInvalidNumericInput,
				Detail: fmt.Errorf("empty line"),
			}
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return Failed, &RuntimeError{
				Err:    ErrInvalidNumericInput,
				Detail: err,
			}
		}
		v.heap[addr] = n

	default:
		return Failed, wsprog.ErrUnknownInstruction
	}

	return Running, nil
}

// transfer invokes the body of a label as a nested level. When the invoker has nothing
// left to run, its frame is replaced instead of kept.
func (v *VM) transfer(id int) error {
	label, ok := v.program.Label(id)
	if !ok {
		return ErrUndefinedLabel
	}
	frame := Frame{
		Label: id,
		Body:  label.Body,
	}
	top := &v.frames[len(v.frames)-1]
	if top.done() {
		*top = frame
		return nil
	}
	if len(v.frames) >= v.maxDepth {
		return ErrDepthExceeded
	}
	v.frames = append(v.frames, frame)
	return nil
}

func (v *VM) write(bs []byte) error {
	if _, err := v.output.Write(bs); err != nil {
		return &RuntimeError{
			Err:    ErrOutput,
			Detail: err,
		}
	}
	return nil
}

func (v *VM) readLine() (string, error) {
	line, err := v.input.ReadLine()
	var runtimeErr *RuntimeError
	if errors.Is(err, io.EOF) {
		return "", ErrEndOfInput
	} else if errors.As(err, &runtimeErr) {
		// already classified, like an output failure of a flushing reader
		return "", err
	} else if err != nil {
		return "", &RuntimeError{
			Err:    ErrEndOfInput,
			Detail: err,
		}
	}
	return line, nil
}
