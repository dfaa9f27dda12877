package wsvm

import (
	"bufio"
	"io"
	"strings"
)

// LineReader supplies input one line at a time. ReadLine returns the line without its
// terminator and io.EOF once no more lines are available.
type LineReader interface {
	ReadLine() (string, error)
}

type lineReader struct {
	r *bufio.Reader
}

func NewLineReader(r io.Reader) LineReader {
	return &lineReader{
		r: bufio.NewReader(r),
	}
}

func (l *lineReader) ReadLine() (string, error) {
	line, err := l.r.ReadString('\n')
	if err == io.EOF {
		if line == "" {
			return "", io.EOF
		}
		err = nil
	}
	if err != nil {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
