package wsprog

import "slices"

type decoder struct {
	symbols []Symbol
	pos     int
}

// Decode turns a symbol stream into a Program. Instructions before the first label mark
// form the main sequence; every later instruction belongs to the most recently marked label.
func Decode(symbols []Symbol) (*Program, error) {
	d := &decoder{
		symbols: symbols,
	}
	var asm assembler
	for d.pos < len(d.symbols) {
		start := d.pos
		inst, err := d.instruction()
		if err != nil {
			return nil, &DecodeError{
				Err:  err,
				Pos:  start,
				Read: slices.Clone(d.symbols[start:d.pos]),
			}
		}
		if err := asm.emit(inst); err != nil {
			return nil, &DecodeError{
				Err:   err,
				Pos:   start,
				Label: inst.Arg,
			}
		}
	}
	return asm.program(), nil
}

func (d *decoder) next() (Symbol, error) {
	if d.pos >= len(d.symbols) {
		return SymbolInvalid, ErrTruncated
	}
	s := d.symbols[d.pos]
	d.pos++
	return s, nil
}

func (d *decoder) number() (int, error) {
	sign, err := d.next()
	if err != nil {
		return 0, err
	}
	if sign == Break {
		return 0, ErrMissingSign
	}
	var mag uint
	for {
		s, err := d.next()
		if err != nil {
			return 0, err
		}
		switch s {
		case Break:
			n := int(mag)
			if sign == Mark {
				n = -n
			}
			return n, nil
		case Mark:
			mag = mag<<1 | 1
		default:
			mag <<= 1
		}
	}
}

func (d *decoder) withArg(op Op) (Instruction, error) {
	n, err := d.number()
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{Op: op, Arg: n}, nil
}

func (d *decoder) instruction() (Instruction, error) {
	s, err := d.next()
	if err != nil {
		return Instruction{}, err
	}
	switch s {
	case Blank:
		return d.stack()
	case Mark:
		s, err := d.next()
		if err != nil {
			return Instruction{}, err
		}
		switch s {
		case Blank:
			return d.arithmetic()
		case Mark:
			return d.heap()
		case Break:
			return d.io()
		}
	case Break:
		return d.flow()
	}
	return Instruction{}, ErrUnknownInstruction
}

func (d *decoder) stack() (Instruction, error) {
	s, err := d.next()
	if err != nil {
		return Instruction{}, err
	}
	switch s {
	case Blank:
		return d.withArg(OpPush)
	case Break:
		s, err := d.next()
		if err != nil {
			return Instruction{}, err
		}
		switch s {
		case Blank:
			return Inst(OpDup), nil
		case Mark:
			return Inst(OpSwap), nil
		case Break:
			return Inst(OpDiscard), nil
		}
	}
	return Instruction{}, ErrUnknownInstruction
}

func (d *decoder) arithmetic() (Instruction, error) {
	s1, err := d.next()
	if err != nil {
		return Instruction{}, err
	}
	s2, err := d.next()
	if err != nil {
		return Instruction{}, err
	}
	switch [2]Symbol{s1, s2} {
	case [2]Symbol{Blank, Blank}:
		return Inst(OpAdd), nil
	case [2]Symbol{Blank, Mark}:
		return Inst(OpSub), nil
	case [2]Symbol{Blank, Break}:
		return Inst(OpMul), nil
	case [2]Symbol{Mark, Blank}:
		return Inst(OpDiv), nil
	case [2]Symbol{Mark, Mark}:
		return Inst(OpMod), nil
	}
	return Instruction{}, ErrUnknownInstruction
}

func (d *decoder) heap() (Instruction, error) {
	s, err := d.next()
	if err != nil {
		return Instruction{}, err
	}
	switch s {
	case Blank:
		return Inst(OpStore), nil
	case Mark:
		return Inst(OpRetrieve), nil
	}
	return Instruction{}, ErrUnknownInstruction
}

func (d *decoder) io() (Instruction, error) {
	s1, err := d.next()
	if err != nil {
		return Instruction{}, err
	}
	s2, err := d.next()
	if err != nil {
		return Instruction{}, err
	}
	switch [2]Symbol{s1, s2} {
	case [2]Symbol{Blank, Blank}:
		return Inst(OpPrintChar), nil
	case [2]Symbol{Blank, Mark}:
		return Inst(OpPrintNumber), nil
	case [2]Symbol{Mark, Blank}:
		return Inst(OpReadChar), nil
	case [2]Symbol{Mark, Mark}:
		return Inst(OpReadNumber), nil
	}
	return Instruction{}, ErrUnknownInstruction
}

func (d *decoder) flow() (Instruction, error) {
	s1, err := d.next()
	if err != nil {
		return Instruction{}, err
	}
	s2, err := d.next()
	if err != nil {
		return Instruction{}, err
	}
	switch [2]Symbol{s1, s2} {
	case [2]Symbol{Blank, Blank}:
		return d.withArg(OpMark)
	case [2]Symbol{Blank, Mark}:
		return d.withArg(OpCall)
	case [2]Symbol{Blank, Break}:
		return d.withArg(OpJump)
	case [2]Symbol{Mark, Blank}:
		return d.withArg(OpJumpZero)
	case [2]Symbol{Mark, Mark}:
		return d.withArg(OpJumpNegative)
	case [2]Symbol{Mark, Break}:
		return Inst(OpReturn), nil
	case [2]Symbol{Break, Break}:
		return Inst(OpHalt), nil
	}
	return Instruction{}, ErrUnknownInstruction
}
