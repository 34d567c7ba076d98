package device

import (
	"errors"
	"github.com/jypelle/tftbridge/internal/lv"
	"sync"
)

var ErrNoTransaction = errors.New("no bus transaction in progress")

// Transport is the hardware pixel sink of a flush.
//
// StartWrite takes exclusive ownership of the bus until EndWrite. The window programmed by
// SetAddrWindow receives the pixels of the following PushColors calls, left to right and top
// to bottom.
type Transport interface {
	StartWrite() error
	SetAddrWindow(x, y, w, h int) error
	PushColors(px []lv.Color, swap bool) error
	EndWrite() error
}

// bus is the exclusive ownership of a transport between StartWrite and EndWrite.
type bus struct {
	lock sync.Mutex
	held bool
}

func (b *bus) acquire() {
	b.lock.Lock()
	b.held = true
}

func (b *bus) release() error {
	if !b.held {
		return ErrNoTransaction
	}
	b.held = false
	b.lock.Unlock()
	return nil
}

func (b *bus) check() error {
	if !b.held {
		return ErrNoTransaction
	}
	return nil
}

// encodeColors writes px into dst, two bytes per pixel.
// With swap the high byte goes first, which is the wire order of RGB565 panels; without it
// pixels keep their little-endian memory layout.
func encodeColors(dst []byte, px []lv.Color, swap bool) {
	for i, c := range px {
		if swap {
			dst[2*i] = byte(c >> 8)
			dst[2*i+1] = byte(c)
		} else {
			dst[2*i] = byte(c)
			dst[2*i+1] = byte(c >> 8)
		}
	}
}
