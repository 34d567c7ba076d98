package simwindow

import (
	"image"
)

// Window shows a simulated panel on the desktop, scaled by Zoom.
// Builds without a desktop backend get a headless window whose methods do nothing.
type Window struct {
	title         string
	width, height int
	source        func() image.Image

	platformWindow
}

const Zoom = 2

// New builds a window for a width x height panel; source is called on every frame.
func New(title string, width, height int, source func() image.Image) *Window {
	return &Window{
		title:  title,
		width:  width,
		height: height,
		source: source,
	}
}

func (w *Window) Size() image.Point {
	return image.Pt(w.width*Zoom, w.height*Zoom)
}
