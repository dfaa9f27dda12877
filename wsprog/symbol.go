package wsprog

import (
	"io"
	"strings"
)

type Symbol uint8

const (
	SymbolInvalid Symbol = iota
	Blank                // space
	Mark                 // tab
	Break                // linefeed
)

func (s Symbol) Rune() rune {
	switch s {
	case Blank:
		return ' '
	case Mark:
		return '\t'
	case Break:
		return '\n'
	}
	return 0
}

// String returns the visible form used in listings and error messages.
func (s Symbol) String() string {
	switch s {
	case Blank:
		return "S"
	case Mark:
		return "T"
	case Break:
		return "L"
	}
	return "?"
}

func SymbolOf(r rune) (Symbol, bool) {
	switch r {
	case ' ':
		return Blank, true
	case '\t':
		return Mark, true
	case '\n':
		return Break, true
	}
	return SymbolInvalid, false
}

// Symbols maps source text to symbols. Any other character is a comment and is dropped.
func Symbols(src []byte) []Symbol {
	ret := make([]Symbol, 0, len(src))
	for _, b := range src {
		if s, ok := SymbolOf(rune(b)); ok {
			ret = append(ret, s)
		}
	}
	return ret
}

func ReadSymbols(r io.Reader) ([]Symbol, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Symbols(content), nil
}

// Text renders symbols back into whitespace source.
func Text(symbols []Symbol) string {
	var sb strings.Builder
	sb.Grow(len(symbols))
	for _, s := range symbols {
		sb.WriteRune(s.Rune())
	}
	return sb.String()
}

func Visible(symbols []Symbol) string {
	var sb strings.Builder
	sb.Grow(len(symbols))
	for _, s := range symbols {
		sb.WriteString(s.String())
	}
	return sb.String()
}
