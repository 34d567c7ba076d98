package lv

import (
	"image"
)

// ImageDsc is an image resource in the panel color format.
type ImageDsc struct {
	Name string
	W, H int
	Data []Color
}

// ImageFromImage converts img to a RGB565 resource.
func ImageFromImage(name string, img image.Image) *ImageDsc {
	b := img.Bounds()
	dsc := &ImageDsc{
		Name: name,
		W:    b.Dx(),
		H:    b.Dy(),
		Data: make([]Color, b.Dx()*b.Dy()),
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dsc.Data[i] = ColorFromRGBA(img.At(x, y))
			i++
		}
	}
	return dsc
}

func (d *ImageDsc) At(x, y int) Color {
	return d.Data[y*d.W+x]
}
