package wsprog

import (
	"fmt"
	"strconv"
	"strings"
)

// Instruction is an immutable decoded operation. Arg is the push value or the label id,
// and is zero for ops without a numeric field.
type Instruction struct {
	Op  Op
	Arg int
}

func Inst(op Op) Instruction {
	return Instruction{Op: op}
}

func Push(n int) Instruction {
	return Instruction{Op: OpPush, Arg: n}
}

func MarkLabel(id int) Instruction {
	return Instruction{Op: OpMark, Arg: id}
}

func Call(id int) Instruction {
	return Instruction{Op: OpCall, Arg: id}
}

func Jump(id int) Instruction {
	return Instruction{Op: OpJump, Arg: id}
}

func JumpZero(id int) Instruction {
	return Instruction{Op: OpJumpZero, Arg: id}
}

func JumpNegative(id int) Instruction {
	return Instruction{Op: OpJumpNegative, Arg: id}
}

func (i Instruction) AppendEncode(dst []Symbol) []Symbol {
	dst = append(dst, i.Op.Code()...)
	if i.Op.HasArg() {
		dst = AppendNumber(dst, i.Arg)
	}
	return dst
}

func (i Instruction) Encode() []Symbol {
	return i.AppendEncode(nil)
}

func (i Instruction) String() string {
	if i.Op.HasArg() {
		return i.Op.String() + " " + strconv.Itoa(i.Arg)
	}
	return i.Op.String()
}

// ParseInstruction parses the display form produced by String.
func ParseInstruction(str string) (ret Instruction, err error) {
	fields := strings.Fields(str)
	if len(fields) == 0 {
		return ret, fmt.Errorf("empty instruction")
	}
	op, ok := OpByName(fields[0])
	if !ok {
		return ret, fmt.Errorf("unknown instruction: %s", fields[0])
	}
	ret.Op = op
	if !op.HasArg() {
		if len(fields) != 1 {
			return ret, fmt.Errorf("%s takes no argument", op)
		}
		return ret, nil
	}
	if len(fields) != 2 {
		return ret, fmt.Errorf("%s takes exactly one argument", op)
	}
	ret.Arg, err = strconv.Atoi(fields[1])
	if err != nil {
		return ret, fmt.Errorf("%s: bad argument: %w", op, err)
	}
	return ret, nil
}
