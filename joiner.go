package ldif

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// LineJoiner unfolds an LDIF stream into logical lines. A physical line that
// starts with a single space continues the previous line; the space is
// dropped. A '>' directly after that space stands for a newline, which lets
// hand-written files carry readable multi-line text.
//
// Comment lines (starting with '#') and their continuations are skipped,
// CRLF line endings are accepted, and a blank line is returned as "" so the
// caller can find record boundaries.
type LineJoiner struct {
	r *bufio.Reader

	next    string
	hasNext bool
	nextNo  int
	done    bool

	physical int
	line     int
}

// NewLineJoiner wraps r.
func NewLineJoiner(r io.Reader) *LineJoiner {
	return &LineJoiner{r: bufio.NewReader(r)}
}

// Line returns the number of the physical line at which the most recently
// returned logical line started.
func (j *LineJoiner) Line() int {
	return j.line
}

// ReadLogicalLine returns the next logical line, "" for a blank line, or
// io.EOF at the end of the stream. A stream that fails with
// io.ErrUnexpectedEOF is reported as ErrTruncatedInput.
func (j *LineJoiner) ReadLogicalLine() (string, error) {
	for {
		if err := j.fill(); err != nil {
			return "", err
		}
		if !j.hasNext {
			return "", io.EOF
		}
		j.line = j.nextNo
		line := j.take()

		if strings.HasPrefix(line, "#") {
			if err := j.skipContinuations(); err != nil {
				return "", err
			}
			continue
		}
		if line == "" {
			return "", nil
		}

		var b strings.Builder
		b.WriteString(line)
		for {
			if err := j.fill(); err != nil {
				return "", err
			}
			if !j.hasNext || !strings.HasPrefix(j.next, " ") {
				break
			}
			cont := j.take()[1:]
			if strings.HasPrefix(cont, ">") {
				b.WriteByte('\n')
				cont = cont[1:]
			}
			b.WriteString(cont)
		}
		return b.String(), nil
	}
}

func (j *LineJoiner) skipContinuations() error {
	for {
		if err := j.fill(); err != nil {
			return err
		}
		if !j.hasNext || !strings.HasPrefix(j.next, " ") {
			return nil
		}
		j.take()
	}
}

func (j *LineJoiner) take() string {
	j.hasNext = false
	return j.next
}

// fill buffers the next physical line unless one is already buffered or the
// stream is exhausted.
func (j *LineJoiner) fill() error {
	if j.hasNext || j.done {
		return nil
	}
	s, err := j.r.ReadString('\n')
	switch {
	case errors.Is(err, io.EOF):
		j.done = true
		if s == "" {
			return nil
		}
	case errors.Is(err, io.ErrUnexpectedEOF):
		j.done = true
		return fmt.Errorf("%w: %v", ErrTruncatedInput, err)
	case err != nil:
		return err
	}
	j.physical++
	s = strings.TrimSuffix(s, "\n")
	j.next = strings.TrimSuffix(s, "\r")
	j.nextNo = j.physical
	j.hasNext = true
	return nil
}
