package wsprog

import (
	"fmt"
	"slices"
)

// Builder assembles a program in source order. Instructions go to the main sequence
// until the first Label call, then to the body of the latest label.
type Builder struct {
	asm assembler
	err error
}

func NewBuilder() *Builder {
	return new(Builder)
}

func (b *Builder) Emit(insts ...Instruction) *Builder {
	for _, inst := range insts {
		if b.err != nil {
			return b
		}
		if err := b.asm.emit(inst); err != nil {
			if inst.Op == OpMark {
				err = fmt.Errorf("label %d: %w", inst.Arg, err)
			}
			b.err = err
		}
	}
	return b
}

// Err returns the first error met by Emit.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) Push(n int) *Builder { return b.Emit(Push(n)) }
func (b *Builder) Dup() *Builder { return b.Emit(Inst(OpDup)) }
func (b *Builder) Swap() *Builder { return b.Emit(Inst(OpSwap)) }
func (b *Builder) Discard() *Builder { return b.Emit(Inst(OpDiscard)) }
func (b *Builder) Add() *Builder { return b.Emit(Inst(OpAdd)) }
func (b *Builder) Sub() *Builder { return b.Emit(Inst(OpSub)) }
func (b *Builder) Mul() *Builder { return b.Emit(Inst(OpMul)) }
func (b *Builder) Div() *Builder { return b.Emit(Inst(OpDiv)) }
func (b *Builder) Mod() *Builder { return b.Emit(Inst(OpMod)) }
func (b *Builder) Store() *Builder { return b.Emit(Inst(OpStore)) }
func (b *Builder) Retrieve() *Builder { return b.Emit(Inst(OpRetrieve)) }
func (b *Builder) Label(id int) *Builder { return b.Emit(MarkLabel(id)) }
func (b *Builder) Call(id int) *Builder { return b.Emit(Call(id)) }
func (b *Builder) Jump(id int) *Builder { return b.Emit(Jump(id)) }
func (b *Builder) JumpZero(id int) *Builder { return b.Emit(JumpZero(id)) }
func (b *Builder) JumpNegative(id int) *Builder { return b.Emit(JumpNegative(id)) }
func (b *Builder) Return() *Builder { return b.Emit(Inst(OpReturn)) }
func (b *Builder) Halt() *Builder { return b.Emit(Inst(OpHalt)) }
func (b *Builder) PrintChar() *Builder { return b.Emit(Inst(OpPrintChar)) }
func (b *Builder) PrintNumber() *Builder { return b.Emit(Inst(OpPrintNumber)) }
func (b *Builder) ReadChar() *Builder { return b.Emit(Inst(OpReadChar)) }
func (b *Builder) ReadNumber() *Builder { return b.Emit(Inst(OpReadNumber)) }

// Text pushes the code points of str last to first, so popping yields str in order.
func (b *Builder) Text(str string) *Builder {
	runes := []rune(str)
	for i := len(runes) - 1; i >= 0; i-- {
		b.Push(int(runes[i]))
	}
	return b
}

// Build returns a snapshot of the program so far; the builder stays usable.
func (b *Builder) Build() (*Program, error) {
	if b.err != nil {
		return nil, b.err
	}
	labels := make([]Label, len(b.asm.labels))
	for i, label := range b.asm.labels {
		labels[i] = Label{
			ID:   label.ID,
			Body: slices.Clone(label.Body),
		}
	}
	index := make(map[int]int, len(b.asm.index))
	for id, i := range b.asm.index {
		index[id] = i
	}
	return &Program{
		Main:   slices.Clone(b.asm.main),
		Labels: labels,
		index:  index,
	}, nil
}

func (b *Builder) MustBuild() *Program {
	prog, err := b.Build()
	if err != nil {
		panic(err)
	}
	return prog
}
