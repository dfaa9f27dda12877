package wsprog

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Source keeps raw text alongside its symbols so decode errors can point into the text.
type Source struct {
	Name    string
	Content []byte
	Symbols []Symbol
	offsets []int // byte offset of each symbol in Content
}

func NewSource(name string, content []byte) *Source {
	s := &Source{
		Name:    name,
		Content: content,
	}
	for i, b := range content {
		if sym, ok := SymbolOf(rune(b)); ok {
			s.Symbols = append(s.Symbols, sym)
			s.offsets = append(s.offsets, i)
		}
	}
	return s
}

type Pos struct {
	Source *Source
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.Source == nil {
		return "-"
	}
	return fmt.Sprintf("%s:%d:%d", p.Source.Name, p.Line, p.Column)
}

// Pos returns the 1-based line and column of the i-th symbol.
func (s *Source) Pos(i int) Pos {
	offset := len(s.Content)
	if i >= 0 && i < len(s.offsets) {
		offset = s.offsets[i]
	}
	line, lineStart := 1, 0
	for j := 0; j < offset; j++ {
		if s.Content[j] == '\n' {
			line++
			lineStart = j + 1
		}
	}
	return Pos{
		Source: s,
		Line:   line,
		Column: utf8.RuneCount(s.Content[lineStart:offset]) + 1,
	}
}

func (s *Source) line(n int) (string, bool) {
	lines := strings.SplitAfter(string(s.Content), "\n")
	if n < 1 || n > len(lines) {
		return "", false
	}
	return lines[n-1], true
}

// Decode decodes the symbols of the source, attaching a position to any DecodeError.
func (s *Source) Decode() (*Program, error) {
	prog, err := Decode(s.Symbols)
	if err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			return nil, PosError{
				Err: err,
				Pos: s.Pos(decodeErr.Pos),
			}
		}
		return nil, err
	}
	return prog, nil
}

type PosError struct {
	Err error
	Pos Pos
}

func (p PosError) Error() string {
	if p.Pos.Source == nil {
		return p.Err.Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s at %s\n", p.Err.Error(), p.Pos))

	line, ok := p.Pos.Source.line(p.Pos.Line)
	if !ok {
		return sb.String()
	}
	// whitespace is invisible, show it as symbol letters
	col := 0
	var caret strings.Builder
	for _, r := range line {
		col++
		if sym, ok := SymbolOf(r); ok {
			sb.WriteString(sym.String())
		} else {
			sb.WriteRune(r)
		}
		if col < p.Pos.Column {
			caret.WriteString(" ")
		}
	}
	sb.WriteString("\n")
	sb.WriteString(caret.String())
	sb.WriteString("^\n")

	return sb.String()
}

func (p PosError) Unwrap() error {
	return p.Err
}
