package device

import (
	"errors"
	"fmt"
	"github.com/jypelle/tftbridge/internal/lv"
	"image"
	"image/color"
)

var (
	ErrWindowOutOfBounds = errors.New("address window outside of the panel")
	ErrWindowOverflow    = errors.New("more pixels than the address window holds")
)

// windowWriter emulates panel RAM addressing on an in-memory image.
type windowWriter struct {
	img    *image.RGBA
	window image.Rectangle
	cursor image.Point
}

func newWindowWriter(width, height int) windowWriter {
	return windowWriter{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (w *windowWriter) setWindow(x, y, width, height int) error {
	r := image.Rect(x, y, x+width, y+height)
	if width <= 0 || height <= 0 || !r.In(w.img.Bounds()) {
		return fmt.Errorf("%w: %v", ErrWindowOutOfBounds, r)
	}
	w.window = r
	w.cursor = r.Min
	return nil
}

func (w *windowWriter) write(px []lv.Color) error {
	for _, c := range px {
		if w.window.Empty() || w.cursor.Y >= w.window.Max.Y {
			return ErrWindowOverflow
		}
		r, g, b, _ := c.RGBA()
		w.img.SetRGBA(w.cursor.X, w.cursor.Y, color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xFF})
		w.cursor.X++
		if w.cursor.X >= w.window.Max.X {
			w.cursor.X = w.window.Min.X
			w.cursor.Y++
		}
	}
	return nil
}

func (w *windowWriter) snapshot() *image.RGBA {
	img := image.NewRGBA(w.img.Bounds())
	copy(img.Pix, w.img.Pix)
	return img
}
