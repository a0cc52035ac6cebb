package run

import (
	"bytes"
	"io"
	"os"
	"sync"
)

// Stdout capture is a process-wide resource: exactly one side of one test
// holds it at a time, so the golden run's text can never leak into the
// submission run's. The lock is released by release even when the subject
// panics.
var captureMu sync.Mutex

type capture struct {
	orig *os.File
	r, w *os.File
	buf  bytes.Buffer
	done chan struct{}
}

// acquireCapture locks the capture resource and swaps os.Stdout for a pipe.
func acquireCapture() (*capture, error) {
	captureMu.Lock()
	r, w, err := os.Pipe()
	if err != nil {
		captureMu.Unlock()
		return nil, err
	}
	c := &capture{orig: os.Stdout, r: r, w: w, done: make(chan struct{})}
	os.Stdout = w
	go func() {
		io.Copy(&c.buf, r) //nolint:errcheck // pipe close ends the copy
		close(c.done)
	}()
	return c, nil
}

// release restores os.Stdout, unlocks the resource, and returns everything
// captured. Callers must not release while their subject goroutine can
// still print: fmt resolves os.Stdout at call time, so a write after
// release lands wherever the variable points next. runSide enforces this
// with a drain window after a timeout.
func (c *capture) release() string {
	os.Stdout = c.orig
	c.w.Close()
	<-c.done
	c.r.Close()
	captureMu.Unlock()
	return c.buf.String()
}
