package problem

import (
	"fmt"
	"io"
)

// InputFeed hands out canned stdin answers to a script-style subject, in
// declaration order. Reading past the last declared answer is a distinct
// runtime failure, never a silent default.
type InputFeed struct {
	lines []string
	next  int
}

// NewInputFeed builds a feed over the given answers.
func NewInputFeed(lines []string) *InputFeed {
	return &InputFeed{lines: lines}
}

// ReadLine returns the next canned answer.
func (f *InputFeed) ReadLine() (string, error) {
	if f.next >= len(f.lines) {
		return "", fmt.Errorf("%w: subject requested answer %d but only %d were declared",
			ErrInputExhausted, f.next+1, len(f.lines))
	}
	line := f.lines[f.next]
	f.next++
	return line, nil
}

// Remaining reports how many answers have not been consumed.
func (f *InputFeed) Remaining() int {
	return len(f.lines) - f.next
}

// Reader adapts the feed to an io.Reader producing one newline-terminated
// answer per declared line. Reads past the end surface ErrInputExhausted
// rather than io.EOF, so the runner can classify over-consumption.
func (f *InputFeed) Reader() io.Reader {
	return &feedReader{feed: f}
}

type feedReader struct {
	feed *InputFeed
	buf  []byte
}

func (r *feedReader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		line, err := r.feed.ReadLine()
		if err != nil {
			return 0, err
		}
		r.buf = append([]byte(line), '\n')
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
