package wsprog

import (
	"math/bits"
	"slices"
)

// AppendNumber appends the numeric field of n: a sign symbol, the magnitude bits
// most significant first, and a terminating Break. Zero has no magnitude bits.
func AppendNumber(dst []Symbol, n int) []Symbol {
	mag := uint(n)
	if n < 0 {
		dst = append(dst, Mark)
		mag = -mag
	} else {
		dst = append(dst, Blank)
	}
	for i := bits.Len(mag) - 1; i >= 0; i-- {
		if mag&(1<<i) != 0 {
			dst = append(dst, Mark)
		} else {
			dst = append(dst, Blank)
		}
	}
	return append(dst, Break)
}

func EncodeNumber(n int) []Symbol {
	return AppendNumber(nil, n)
}

// DecodeNumber decodes one numeric field at the start of symbols and reports how many
// symbols it consumed.
func DecodeNumber(symbols []Symbol) (n int, size int, err error) {
	d := &decoder{
		symbols: symbols,
	}
	n, err = d.number()
	if err != nil {
		return 0, d.pos, &DecodeError{
			Err:  err,
			Read: slices.Clone(symbols[:d.pos]),
		}
	}
	return n, d.pos, nil
}
