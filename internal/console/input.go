package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

type readResult struct {
	line string
	err  error
}

// lineReader performs the blocking reads on a helper goroutine so a
// cancelled context can interrupt a prompt. It reads only when asked, so
// all roster and credential work stays on the caller's goroutine.
type lineReader struct {
	r    *bufio.Reader
	req  chan struct{}
	resp chan readResult
	done chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{
		r:    bufio.NewReader(r),
		req:  make(chan struct{}),
		resp: make(chan readResult),
		done: make(chan struct{}),
	}
}

// ReadLine returns the next line without its line ending. Lines have no
// length limit. End of input is reported as errInputClosed.
func (lr *lineReader) ReadLine(ctx context.Context) (string, error) {
	lr.startOnce.Do(func() { go lr.loop() })

	select {
	case lr.req <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	case <-lr.done:
		return "", errInputClosed
	}

	select {
	case res := <-lr.resp:
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (lr *lineReader) Stop() {
	lr.stopOnce.Do(func() { close(lr.done) })
}

func (lr *lineReader) loop() {
	for {
		select {
		case <-lr.req:
		case <-lr.done:
			return
		}

		line, err := lr.r.ReadString('\n')
		res := readResult{line: strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")}
		switch {
		case line != "":
		case errors.Is(err, io.EOF):
			res.err = errInputClosed
		default:
			res.err = errors.Join(errInputClosed, err)
		}

		select {
		case lr.resp <- res:
		case <-lr.done:
			return
		}
	}
}
