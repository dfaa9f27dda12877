package wsprog

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownInstruction = errors.New("unknown instruction")
	ErrTruncated          = errors.New("unexpected end of stream")
	ErrDuplicateLabel     = errors.New("duplicate label")
	ErrMissingSign        = errors.New("missing sign in numeric field")
)

// DecodeError reports where decoding stopped. Pos is the symbol index at which the
// failing instruction starts, Read holds the symbols of that instruction consumed so far.
type DecodeError struct {
	Err   error
	Pos   int
	Read  []Symbol
	Label int
}

func (d *DecodeError) Error() string {
	switch {
	case errors.Is(d.Err, ErrDuplicateLabel):
		return fmt.Sprintf("decode: %s %d at symbol %d", d.Err, d.Label, d.Pos)
	case len(d.Read) > 0:
		return fmt.Sprintf("decode: %s at symbol %d after %s", d.Err, d.Pos, Visible(d.Read))
	}
	return fmt.Sprintf("decode: %s at symbol %d", d.Err, d.Pos)
}

func (d *DecodeError) Unwrap() error {
	return d.Err
}
