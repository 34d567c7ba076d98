package images

import (
	"github.com/hajimehoshi/bitmapfont/v2"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"image"
	"image/color"
)

const (
	glyphWidth  = 6
	glyphHeight = 16
	baseline    = 12
)

// AddLabel draws label with its baseline at y.
func AddLabel(img draw.Image, x, y int, label string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: bitmapfont.Face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(label)
}

// AddCenteredLabel draws label horizontally centered on img.
func AddCenteredLabel(img draw.Image, y int, label string, col color.Color) {
	AddLabel(img, img.Bounds().Min.X+(img.Bounds().Dx()-len(label)*glyphWidth)/2, y, label, col)
}

// AddScaledLabel draws label magnified to fit dst, keeping the glyph aspect ratio.
func AddScaledLabel(img draw.Image, dst image.Rectangle, label string, col color.Color) {
	if len(label) == 0 || dst.Empty() {
		return
	}
	small := image.NewRGBA(image.Rect(0, 0, len(label)*glyphWidth, glyphHeight))
	AddLabel(small, 0, baseline, label, col)

	scale := dst.Dx() / small.Bounds().Dx()
	if s := dst.Dy() / small.Bounds().Dy(); s < scale {
		scale = s
	}
	if scale < 1 {
		scale = 1
	}
	w, h := small.Bounds().Dx()*scale, small.Bounds().Dy()*scale
	target := image.Rect(0, 0, w, h).Add(dst.Min).Add(image.Pt((dst.Dx()-w)/2, (dst.Dy()-h)/2))

	draw.NearestNeighbor.Scale(img, target, small, small.Bounds(), draw.Over, nil)
}
