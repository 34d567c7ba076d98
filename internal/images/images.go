package images

import (
	"github.com/jypelle/tftbridge/internal/lv"
	"golang.org/x/image/draw"
	"image"
	"image/color"
)

// Icon resources alternated on the active screen.
var (
	Test1Image image.Image
	Test3Image image.Image

	Test1 *lv.ImageDsc
	Test3 *lv.ImageDsc
)

func init() {
	Test1Image = newTestCard("test1", 240, 240, color.RGBA{0x10, 0x40, 0xA0, 0xFF})
	Test3Image = newTestCard("test3", 120, 120, color.RGBA{0xA0, 0x30, 0x10, 0xFF})

	Test1 = lv.ImageFromImage("test1", Test1Image)
	Test3 = lv.ImageFromImage("test3", Test3Image)
}

// newTestCard draws a framed vertical gradient with a big centered name.
func newTestCard(name string, w, h int, base color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		k := 0x40 + 0xBF*y/h
		row := color.RGBA{
			R: uint8(int(base.R) * k / 0xFF),
			G: uint8(int(base.G) * k / 0xFF),
			B: uint8(int(base.B) * k / 0xFF),
			A: 0xFF,
		}
		draw.Draw(img, image.Rect(0, y, w, y+1), image.NewUniform(row), image.Point{}, draw.Src)
	}

	white := image.NewUniform(color.White)
	draw.Draw(img, image.Rect(0, 0, w, 2), white, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, h-2, w, h), white, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, 0, 2, h), white, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(w-2, 0, w, h), white, image.Point{}, draw.Src)

	AddScaledLabel(img, image.Rect(w/8, h/4, w-w/8, h-h/4), name, color.White)
	AddCenteredLabel(img, h-8, name, color.White)

	return img
}
