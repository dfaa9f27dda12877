package wsprog

import (
	"fmt"
	"slices"
)

// Label is both a jump target and a callable body.
type Label struct {
	ID   int
	Body []Instruction
}

// Program is the decoded form of a source. It must not be modified after construction;
// any number of machines may run it at once.
type Program struct {
	Main   []Instruction
	Labels []Label // in order of their marks
	index  map[int]int
}

// NewProgram validates and indexes the given parts. Label ids must be unique and no
// sequence may contain a label mark.
func NewProgram(main []Instruction, labels ...Label) (*Program, error) {
	var asm assembler
	for _, inst := range main {
		if err := asm.emit(inst); err != nil {
			return nil, err
		}
	}
	if len(asm.labels) > 0 {
		return nil, fmt.Errorf("label mark in main sequence")
	}
	for _, label := range labels {
		if err := asm.emit(MarkLabel(label.ID)); err != nil {
			return nil, fmt.Errorf("label %d: %w", label.ID, err)
		}
		for _, inst := range label.Body {
			if inst.Op == OpMark {
				return nil, fmt.Errorf("label mark in body of label %d", label.ID)
			}
			if err := asm.emit(inst); err != nil {
				return nil, err
			}
		}
	}
	return asm.program(), nil
}

func (p *Program) Label(id int) (Label, bool) {
	if p.index != nil {
		i, ok := p.index[id]
		if !ok {
			return Label{}, false
		}
		return p.Labels[i], true
	}
	for _, label := range p.Labels {
		if label.ID == id {
			return label, true
		}
	}
	return Label{}, false
}

// AppendEncode appends the main sequence, then each label mark followed by its body.
func (p *Program) AppendEncode(dst []Symbol) []Symbol {
	for _, inst := range p.Main {
		dst = inst.AppendEncode(dst)
	}
	for _, label := range p.Labels {
		dst = MarkLabel(label.ID).AppendEncode(dst)
		for _, inst := range label.Body {
			dst = inst.AppendEncode(dst)
		}
	}
	return dst
}

func (p *Program) Encode() []Symbol {
	return p.AppendEncode(nil)
}

// Text returns the program as whitespace source.
func (p *Program) Text() string {
	return Text(p.Encode())
}

func (p *Program) Equal(q *Program) bool {
	if p == nil || q == nil {
		return p == q
	}
	if !slices.Equal(p.Main, q.Main) {
		return false
	}
	return slices.EqualFunc(p.Labels, q.Labels, func(a, b Label) bool {
		return a.ID == b.ID && slices.Equal(a.Body, b.Body)
	})
}

type assembler struct {
	main   []Instruction
	labels []Label
	index  map[int]int
}

func (a *assembler) emit(inst Instruction) error {
	if !inst.Op.Valid() {
		return ErrUnknownInstruction
	}
	if inst.Op == OpMark {
		if _, ok := a.index[inst.Arg]; ok {
			return ErrDuplicateLabel
		}
		if a.index == nil {
			a.index = make(map[int]int)
		}
		a.index[inst.Arg] = len(a.labels)
		a.labels = append(a.labels, Label{
			ID: inst.Arg,
		})
		return nil
	}
	if n := len(a.labels); n > 0 {
		a.labels[n-1].Body = append(a.labels[n-1].Body, inst)
	} else {
		a.main = append(a.main, inst)
	}
	return nil
}

func (a *assembler) program() *Program {
	return &Program{
		Main:   a.main,
		Labels: a.labels,
		index:  a.index,
	}
}
