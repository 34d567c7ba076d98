package device

import (
	"errors"
	"fmt"
	"github.com/jypelle/tftbridge/apimodel"
	"github.com/jypelle/tftbridge/internal/lv"
	"github.com/sirupsen/logrus"
	"sync/atomic"
)

var (
	ErrMalformedArea = errors.New("malformed area")
	ErrAreaOffScreen = errors.New("area outside of the screen")
	ErrAreaTooLarge  = errors.New("area larger than the lent pixels")
)

type flushStats struct {
	flushed  uint64
	dropped  uint64
	rejected uint64
	pixels   uint64
}

// FlushBridge streams rendered strips to the panel transport and hands the draw buffer back
// to the renderer.
type FlushBridge struct {
	stats flushStats

	transport     Transport
	width, height int
	swapBytes     bool
}

func NewFlushBridge(transport Transport, width, height int, swapBytes bool) *FlushBridge {
	return &FlushBridge{
		transport: transport,
		width:     width,
		height:    height,
		swapBytes: swapBytes,
	}
}

// Flush implements lv.Driver. The lease is released exactly once before Flush returns, even
// when the frame is dropped or rejected.
func (b *FlushBridge) Flush(area lv.Area, lease *lv.Lease) {
	defer func() {
		if err := lease.Release(); err != nil {
			logrus.Errorf("Unable to release draw buffer for %v: %v", area, err)
		}
	}()

	err := b.flush(area, lease.Pixels())
	switch {
	case err == nil:
		atomic.AddUint64(&b.stats.flushed, 1)
	case errors.Is(err, ErrMalformedArea), errors.Is(err, ErrAreaOffScreen), errors.Is(err, ErrAreaTooLarge):
		atomic.AddUint64(&b.stats.rejected, 1)
		logrus.Errorf("Flush rejected: %v", err)
	default:
		atomic.AddUint64(&b.stats.dropped, 1)
		logrus.Errorf("Frame %v dropped: %v", area, err)
	}
}

func (b *FlushBridge) flush(area lv.Area, px []lv.Color) (err error) {
	if !area.IsValid() {
		return fmt.Errorf("%w: %v", ErrMalformedArea, area)
	}
	// Width or height overflowing int wraps to a non positive value
	if area.Width() <= 0 || area.Height() <= 0 || area.Height() > len(px)/area.Width() {
		return fmt.Errorf("%w: %v, got %d pixels", ErrAreaTooLarge, area, len(px))
	}
	screen := lv.Area{X1: 0, Y1: 0, X2: b.width - 1, Y2: b.height - 1}
	visible, ok := area.Intersect(screen)
	if !ok {
		return fmt.Errorf("%w: %v", ErrAreaOffScreen, area)
	}
	if visible != area {
		logrus.Debugf("Clamping flush area %v to %v", area, visible)
	}

	w, h := visible.Width(), visible.Height()

	if err = b.transport.StartWrite(); err != nil {
		return fmt.Errorf("unable to start bus transaction: %w", err)
	}
	defer func() {
		if endErr := b.transport.EndWrite(); endErr != nil && err == nil {
			err = fmt.Errorf("unable to end bus transaction: %w", endErr)
		}
	}()

	if err = b.transport.SetAddrWindow(visible.X1, visible.Y1, w, h); err != nil {
		return fmt.Errorf("unable to set address window: %w", err)
	}

	if visible == area {
		err = b.transport.PushColors(px[:area.Size()], b.swapBytes)
	} else {
		// Only the on-screen part of each row
		stride := area.Width()
		for y := visible.Y1; y <= visible.Y2 && err == nil; y++ {
			start := (y-area.Y1)*stride + visible.X1 - area.X1
			if start < 0 || start+w > len(px) {
				err = fmt.Errorf("%w: row %d of %v", ErrAreaTooLarge, y, area)
				break
			}
			err = b.transport.PushColors(px[start:start+w], b.swapBytes)
		}
	}
	if err != nil {
		return fmt.Errorf("unable to push pixels: %w", err)
	}

	atomic.AddUint64(&b.stats.pixels, uint64(w*h))
	return nil
}

func (b *FlushBridge) Stats() apimodel.FlushStatus {
	return apimodel.FlushStatus{
		Flushed:  atomic.LoadUint64(&b.stats.flushed),
		Dropped:  atomic.LoadUint64(&b.stats.dropped),
		Rejected: atomic.LoadUint64(&b.stats.rejected),
		Pixels:   atomic.LoadUint64(&b.stats.pixels),
	}
}
