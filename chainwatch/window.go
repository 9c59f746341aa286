package chainwatch

import (
	"github.com/hedisam/monerorpc"
)

// window holds the most recent headers in arrival order, oldest first.
// Once full, the oldest header must be taken out before another one fits.
type window struct {
	headers []*monerorpc.BlockHeader
	start   int
	count   int
}

func newWindow(capacity uint) *window {
	return &window{
		headers: make([]*monerorpc.BlockHeader, max(1, capacity)),
	}
}

func (w *window) len() int {
	return w.count
}

func (w *window) full() bool {
	return w.count == len(w.headers)
}

func (w *window) slot(offset int) int {
	return (w.start + offset) % len(w.headers)
}

// push appends header as the newest entry. It reports false when the window is full.
func (w *window) push(header *monerorpc.BlockHeader) bool {
	if w.full() {
		return false
	}
	w.headers[w.slot(w.count)] = header
	w.count++
	return true
}

// popOldest removes and returns the oldest header.
func (w *window) popOldest() (*monerorpc.BlockHeader, bool) {
	if w.count == 0 {
		return nil, false
	}
	header := w.headers[w.start]
	w.headers[w.start] = nil
	w.start = w.slot(1)
	w.count--
	return header, true
}

func (w *window) oldest() (*monerorpc.BlockHeader, bool) {
	if w.count == 0 {
		return nil, false
	}
	return w.headers[w.start], true
}

func (w *window) newest() (*monerorpc.BlockHeader, bool) {
	if w.count == 0 {
		return nil, false
	}
	return w.headers[w.slot(w.count-1)], true
}

func (w *window) dropNewest() {
	if w.count == 0 {
		return
	}
	w.headers[w.slot(w.count-1)] = nil
	w.count--
}
