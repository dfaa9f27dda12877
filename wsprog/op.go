package wsprog

type Op uint8

const (
	OpInvalid Op = iota

	// stack
	OpPush
	OpDup
	OpSwap
	OpDiscard

	// arithmetic
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod

	// heap
	OpStore
	OpRetrieve

	// flow
	OpMark
	OpCall
	OpJump
	OpJumpZero
	OpJumpNegative
	OpReturn
	OpHalt

	// io
	OpPrintChar
	OpPrintNumber
	OpReadChar
	OpReadNumber

	numOps
)

type opInfo struct {
	name   string
	code   []Symbol
	hasArg bool
}

var opInfos = [numOps]opInfo{
	OpPush:    {"push", []Symbol{Blank, Blank}, true},
	OpDup:     {"dup", []Symbol{Blank, Break, Blank}, false},
	OpSwap:    {"swap", []Symbol{Blank, Break, Mark}, false},
	OpDiscard: {"discard", []Symbol{Blank, Break, Break}, false},

	OpAdd: {"add", []Symbol{Mark, Blank, Blank, Blank}, false},
	OpSub: {"sub", []Symbol{Mark, Blank, Blank, Mark}, false},
	OpMul: {"mul", []Symbol{Mark, Blank, Blank, Break}, false},
	OpDiv: {"div", []Symbol{Mark, Blank, Mark, Blank}, false},
	OpMod: {"mod", []Symbol{Mark, Blank, Mark, Mark}, false},

	OpStore:    {"store", []Symbol{Mark, Mark, Blank}, false},
	OpRetrieve: {"retrieve", []Symbol{Mark, Mark, Mark}, false},

	OpMark:         {"label", []Symbol{Break, Blank, Blank}, true},
	OpCall:         {"call", []Symbol{Break, Blank, Mark}, true},
	OpJump:         {"jump", []Symbol{Break, Blank, Break}, true},
	OpJumpZero:     {"jz", []Symbol{Break, Mark, Blank}, true},
	OpJumpNegative: {"jn", []Symbol{Break, Mark, Mark}, true},
	OpReturn:       {"ret", []Symbol{Break, Mark, Break}, false},
	OpHalt:         {"halt", []Symbol{Break, Break, Break}, false},

	OpPrintChar:   {"putc", []Symbol{Mark, Break, Blank, Blank}, false},
	OpPrintNumber: {"putn", []Symbol{Mark, Break, Blank, Mark}, false},
	OpReadChar:    {"getc", []Symbol{Mark, Break, Mark, Blank}, false},
	OpReadNumber:  {"getn", []Symbol{Mark, Break, Mark, Mark}, false},
}

var opsByName = func() map[string]Op {
	ret := make(map[string]Op, numOps)
	for op := OpPush; op < numOps; op++ {
		ret[opInfos[op].name] = op
	}
	return ret
}()

func (o Op) Valid() bool {
	return o > OpInvalid && o < numOps
}

func (o Op) String() string {
	if !o.Valid() {
		return "invalid"
	}
	return opInfos[o].name
}

// HasArg reports whether the op carries a numeric field on the wire.
func (o Op) HasArg() bool {
	return o.Valid() && opInfos[o].hasArg
}

// IsTransfer reports whether the op names a label to invoke.
func (o Op) IsTransfer() bool {
	switch o {
	case OpCall, OpJump, OpJumpZero, OpJumpNegative:
		return true
	}
	return false
}

// Code returns the opcode symbols, not including any numeric field.
func (o Op) Code() []Symbol {
	if !o.Valid() {
		return nil
	}
	return opInfos[o].code
}

func OpByName(name string) (Op, bool) {
	op, ok := opsByName[name]
	return op, ok
}
