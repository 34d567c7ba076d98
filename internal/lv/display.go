package lv

import (
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"image"
)

// Above this many pending areas the whole screen is invalidated instead.
const maxInvalidAreas = 32

var ErrBufferTooNarrow = errors.New("lv: draw buffer can't hold a single row of the area")

// Driver sends rendered strips to the panel.
//
// Flush must release the lease exactly once, even when the transfer fails. The renderer
// won't touch the draw buffer again before that.
type Driver interface {
	Flush(area Area, lease *Lease)
}

// DriverFunc adapts a function to the Driver interface.
type DriverFunc func(area Area, lease *Lease)

func (f DriverFunc) Flush(area Area, lease *Lease) {
	f(area, lease)
}

type Display struct {
	// First field: 64-bit atomic alignment
	clock Clock

	width, height int
	buf           *DrawBuffer
	driver        Driver

	screen  *Obj
	invalid []Area
}

// NewDisplay registers the draw buffer and the flush driver for a screen geometry.
// The whole screen starts invalid.
func NewDisplay(width, height int, buf *DrawBuffer, driver Driver) *Display {
	d := &Display{
		width:  width,
		height: height,
		buf:    buf,
		driver: driver,
	}
	d.screen = &Obj{disp: d, w: width, h: height, bg: ColorBlack}
	d.Invalidate(d.Area())
	return d
}

func (d *Display) Width() int {
	return d.width
}

func (d *Display) Height() int {
	return d.height
}

// Area returns the whole screen area.
func (d *Display) Area() Area {
	return Area{X1: 0, Y1: 0, X2: d.width - 1, Y2: d.height - 1}
}

// Screen returns the active screen, root of the object tree.
func (d *Display) Screen() *Obj {
	return d.screen
}

func (d *Display) Clock() *Clock {
	return &d.clock
}

func (d *Display) Buffer() *DrawBuffer {
	return d.buf
}

// InvalidAreas returns a copy of the areas waiting for the next refresh.
func (d *Display) InvalidAreas() []Area {
	return append([]Area(nil), d.invalid...)
}

// Invalidate marks an area to be redrawn on the next Refresh. The area is clipped to the screen.
func (d *Display) Invalidate(area Area) {
	area, ok := area.Intersect(d.Area())
	if !ok {
		return
	}

	for _, a := range d.invalid {
		if a.Contains(area) {
			return
		}
	}

	kept := d.invalid[:0]
	for _, a := range d.invalid {
		if !area.Contains(a) {
			kept = append(kept, a)
		}
	}
	d.invalid = kept

	if len(d.invalid) >= maxInvalidAreas {
		d.invalid = append(d.invalid[:0], d.Area())
		return
	}
	d.invalid = append(d.invalid, area)
}

// Refresh redraws every invalid area, strip by strip, through the driver.
func (d *Display) Refresh() error {
	if len(d.invalid) == 0 {
		return nil
	}

	start := d.clock.Now()
	areas := joinAreas(d.invalid)
	d.invalid = nil

	for i, area := range areas {
		if err := d.refreshArea(area); err != nil {
			d.invalid = append(d.invalid, areas[i:]...)
			return err
		}
	}

	logrus.Debugf("Refreshed %d areas in %d ms", len(areas), d.clock.Elapsed(start))
	return nil
}

func (d *Display) refreshArea(area Area) error {
	rows := d.buf.Capacity() / area.Width()
	if rows == 0 {
		return fmt.Errorf("%w: %v", ErrBufferTooNarrow, area)
	}

	for y := area.Y1; y <= area.Y2; y += rows {
		strip := Area{X1: area.X1, Y1: y, X2: area.X2, Y2: minInt(y+rows-1, area.Y2)}

		lease, err := d.buf.Lend(strip.Size())
		if err != nil {
			return err
		}
		d.render(strip, lease.Pixels())
		d.driver.Flush(strip, lease)

		// Wait for the driver to hand the buffer back
		<-lease.Done()
	}
	return nil
}

// render draws the part of the object tree covering area into px (row major, area width stride).
func (d *Display) render(area Area, px []Color) {
	for i := range px {
		px[i] = d.screen.bg
	}
	for _, child := range d.screen.children {
		drawObj(child, area, px)
	}
}

func drawObj(o *Obj, area Area, px []Color) {
	if o.src != nil {
		coords := o.Coords()
		if clip, ok := coords.Intersect(area); ok {
			stride := area.Width()
			cw := clip.Width()
			for y := clip.Y1; y <= clip.Y2; y++ {
				dst := (y-area.Y1)*stride + clip.X1 - area.X1
				src := (y-coords.Y1)*o.src.W + clip.X1 - coords.X1
				copy(px[dst:dst+cw], o.src.Data[src:src+cw])
			}
		}
	}
	for _, child := range o.children {
		drawObj(child, area, px)
	}
}

// Snapshot renders the whole screen, bypassing the draw buffer and the driver.
func (d *Display) Snapshot() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, d.width, d.height))
	row := make([]Color, d.width)
	for y := 0; y < d.height; y++ {
		d.render(Area{X1: 0, Y1: y, X2: d.width - 1, Y2: y}, row)
		for x, c := range row {
			img.Set(x, y, c)
		}
	}
	return img
}

// joinAreas merges touching areas when the merged area is smaller than the two apart.
func joinAreas(areas []Area) []Area {
	res := append([]Area(nil), areas...)
	for joined := true; joined; {
		joined = false
		for i := 0; i < len(res) && !joined; i++ {
			for j := i + 1; j < len(res); j++ {
				grown := Area{X1: res[i].X1 - 1, Y1: res[i].Y1 - 1, X2: res[i].X2 + 1, Y2: res[i].Y2 + 1}
				if !grown.IsOn(res[j]) {
					continue
				}
				union := res[i].Join(res[j])
				if union.Size() < res[i].Size()+res[j].Size() {
					res[i] = union
					res = append(res[:j], res[j+1:]...)
					joined = true
					break
				}
			}
		}
	}
	return res
}
