package lv

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrBufferBusy     = errors.New("lv: draw buffer is still lent to the display driver")
	ErrBufferCapacity = errors.New("lv: pixel count exceeds draw buffer capacity")
	ErrLeaseReleased  = errors.New("lv: lease already released")
)

// BufferDivider is the fraction of the screen the draw buffer can hold.
const BufferDivider = 10

// BufferCapacity returns the draw buffer size, in pixels, for a screen geometry.
func BufferCapacity(width, height int) int {
	return width * height / BufferDivider
}

// DrawBuffer is the partial-screen surface the renderer draws into.
// It is lent to the display driver one region at a time.
type DrawBuffer struct {
	lock  sync.Mutex
	pix   []Color
	lease *Lease
}

func NewDrawBuffer(capacity int) *DrawBuffer {
	return &DrawBuffer{pix: make([]Color, capacity)}
}

func (b *DrawBuffer) Capacity() int {
	return len(b.pix)
}

// Busy reports whether a lease is outstanding.
func (b *DrawBuffer) Busy() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.lease != nil
}

// Lend hands the first n pixels of the buffer out. The buffer can't be lent again until the
// returned lease is released.
func (b *DrawBuffer) Lend(n int) (*Lease, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if n < 0 || n > len(b.pix) {
		return nil, fmt.Errorf("%w: %d > %d", ErrBufferCapacity, n, len(b.pix))
	}
	if b.lease != nil {
		return nil, ErrBufferBusy
	}

	b.lease = &Lease{
		buf:  b,
		pix:  b.pix[:n:n],
		done: make(chan struct{}),
	}
	return b.lease, nil
}

// Lease is the temporary ownership of a draw buffer region. Whoever holds it may read the
// pixels; Release gives the region back to the renderer.
type Lease struct {
	buf      *DrawBuffer
	pix      []Color
	released bool
	done     chan struct{}
}

func (l *Lease) Pixels() []Color {
	return l.pix
}

// Release returns the region to the renderer. It must be called exactly once.
func (l *Lease) Release() error {
	l.buf.lock.Lock()
	defer l.buf.lock.Unlock()

	if l.released {
		return ErrLeaseReleased
	}
	l.released = true
	l.buf.lease = nil
	close(l.done)
	return nil
}

func (l *Lease) Released() bool {
	l.buf.lock.Lock()
	defer l.buf.lock.Unlock()
	return l.released
}

// Done is closed once the lease is released.
func (l *Lease) Done() <-chan struct{} {
	return l.done
}
