package capture

import (
	"errors"
	"sync"
)

// DefaultPoolSize is the number of in-flight frame buffers a source hands
// out before it stalls.
const DefaultPoolSize = 4

// ErrPoolExhausted is returned when every frame buffer is checked out. It
// usually means a consumer forgot to close a frame.
var ErrPoolExhausted = errors.New("frame pool exhausted")

// FramePool recycles a bounded set of frame buffers. Sources draw buffers
// with Get and frames return them through their release callback; once all
// buffers are checked out, Get fails until a frame is released.
type FramePool struct {
	mu      sync.Mutex
	free    [][]byte
	total   int
	max     int
	bufSize int
}

// NewFramePool creates a pool of at most max buffers of bufSize bytes each.
// Buffers are allocated lazily on first use.
func NewFramePool(max, bufSize int) *FramePool {
	if max <= 0 {
		max = DefaultPoolSize
	}
	return &FramePool{
		max:     max,
		bufSize: bufSize,
	}
}

// Get checks a buffer out of the pool.
func (p *FramePool) Get() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n := len(p.free); n > 0 {
		buf := p.free[n-1]
		p.free = p.free[:n-1]
		return buf, nil
	}

	if p.total >= p.max {
		return nil, ErrPoolExhausted
	}

	p.total++
	return make([]byte, p.bufSize), nil
}

// Put returns a buffer to the pool. Foreign buffers are dropped.
func (p *FramePool) Put(buf []byte) {
	if len(buf) != p.bufSize {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.free = append(p.free, buf)
}

// BufSize returns the size in bytes of this pool's buffers.
func (p *FramePool) BufSize() int {
	return p.bufSize
}

// InUse returns the number of buffers currently checked out.
func (p *FramePool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total - len(p.free)
}
